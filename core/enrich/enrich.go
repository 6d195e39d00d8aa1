// Package enrich joins a page's issued date and time onto its topic tables.
package enrich

import "github.com/gaurav-prasanna/pagasapipe/core"

// Columns appended by Broadcast.
var Columns = []string{core.ColIssuedDate, core.ColIssuedTime}

// Broadcast returns t with issued_date and issued_time appended to every row.
// Row count and order are unchanged. A nil issued fills both columns with "".
func Broadcast(t core.Table, issued *core.IssuedDateTime) core.Table {
	var values []string
	if issued != nil {
		values = []string{issued.Date, issued.Time}
	}
	return t.WithColumns(Columns, func([]string) []string { return values })
}

// IssuedFromTable reads the issued date and time from the first row of a
// staged issued-datetime table. It returns nil when the table has no rows
// or lacks the columns.
func IssuedFromTable(t core.Table) *core.IssuedDateTime {
	if t.Len() == 0 || t.Index(core.ColIssuedDate) < 0 || t.Index(core.ColIssuedTime) < 0 {
		return nil
	}
	return &core.IssuedDateTime{
		Date: t.Value(0, core.ColIssuedDate),
		Time: t.Value(0, core.ColIssuedTime),
	}
}
