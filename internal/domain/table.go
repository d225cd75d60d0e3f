package domain

// Row maps a header to its cell value: a string, or a float64 for numeric cells.
type Row map[string]any

// Table is a spreadsheet as handed to the column mapper.
// Headers keeps the column order of the sheet's first row.
type Table struct {
	Headers []string
	Rows    []Row
}
