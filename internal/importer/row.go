package importer

import "strings"

// Row is one data row of a sheet, keyed by the header row.
// Keys keep their header order.
type Row struct {
	keys   []string
	values map[string]string
	index  map[string]string // normalized key -> original key
}

// NewRow builds a row from parallel header and cell slices. Blank headers
// are skipped; for repeated headers the first column wins. Missing trailing
// cells read as "".
func NewRow(headers, cells []string) Row {
	r := Row{
		keys:   make([]string, 0, len(headers)),
		values: make(map[string]string, len(headers)),
		index:  make(map[string]string, len(headers)),
	}
	for i, h := range headers {
		key := strings.TrimSpace(h)
		if key == "" {
			continue
		}
		norm := strings.ToLower(key)
		if _, dup := r.index[norm]; dup {
			continue
		}
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		r.keys = append(r.keys, key)
		r.values[key] = cell
		r.index[norm] = key
	}
	return r
}

// RowFromMap builds a row from a plain mapping. Keys are sorted into the
// order given by order; keys not listed there follow in map order.
func RowFromMap(m map[string]string, order ...string) Row {
	headers := make([]string, 0, len(m))
	cells := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range order {
		if v, ok := m[k]; ok {
			headers = append(headers, k)
			cells = append(cells, v)
			seen[k] = true
		}
	}
	for k, v := range m {
		if !seen[k] {
			headers = append(headers, k)
			cells = append(cells, v)
		}
	}
	return NewRow(headers, cells)
}

// Keys returns the column names in header order
func (r Row) Keys() []string {
	return r.keys
}

// Get returns the cell under key. Matching ignores case and surrounding
// whitespace in key.
func (r Row) Get(key string) (string, bool) {
	orig, ok := r.index[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return "", false
	}
	return r.values[orig], true
}

// Len returns the number of columns
func (r Row) Len() int {
	return len(r.keys)
}

// Blank reports whether every cell is empty or whitespace
func (r Row) Blank() bool {
	for _, v := range r.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Map returns a copy of the row as a plain mapping
func (r Row) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}
