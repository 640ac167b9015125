// Package report flattens nested PagerDuty entities into tabular rows.
//
// Every flattener is a pure function from a parsed entity list to row
// structs; rendering into a Table fixes the column order the sink
// writes. An empty nested collection always yields one placeholder row
// with nil cells rather than dropping the parent entity from the
// export.
package report

// Table is an ordered set of rows ready for a tabular sink. Cells are
// nil where a column does not apply to the row.
type Table struct {
	Name   string
	Header []string
	Rows   [][]*string
}

// cell returns a pointer cell for a present value.
func cell(s string) *string {
	return &s
}
