package types

// Row is a single result row keyed by column name
type Row map[string]any

// QueryResult is the ordered output of a SQL statement
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows
func (r *QueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// EmptyResult returns a result with no columns and a non-nil, empty row slice
// so it encodes as [] rather than null.
func EmptyResult() *QueryResult {
	return &QueryResult{Columns: []string{}, Rows: []Row{}}
}
