// Command pagasapipe scrapes PAGASA weather pages into raw, stage and processed data tiers.
package main

import "github.com/gaurav-prasanna/pagasapipe/cmd"

func main() {
	cmd.Execute()
}
