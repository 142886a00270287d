package table

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Row maps a field name to its decoded value: nil, bool, int64, float64,
// string, []any or map[string]any.
type Row map[string]any

// Table is an ordered collection of rows with first-seen column order.
// A Table is not safe for concurrent mutation.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// New creates an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// Append adds row at the end of the table. keys gives the order in which the
// row's fields appeared; fields of row not listed in keys are registered in
// sorted order after them.
func (t *Table) Append(row Row, keys ...string) {
	for _, k := range keys {
		if _, ok := row[k]; ok {
			t.addColumn(k)
		}
	}

	var rest []string
	for k := range row {
		if _, ok := t.index[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		t.addColumn(k)
	}

	t.rows = append(t.rows, row)
}

func (t *Table) addColumn(name string) {
	if _, ok := t.index[name]; ok {
		return
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the column names in first-seen order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Row returns the i-th row. It panics if i is out of range, like a slice index.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Value returns the cell at row i and column name. The boolean is false when
// the row has no such field.
func (t *Table) Value(i int, name string) (any, bool) {
	v, ok := t.rows[i][name]
	return v, ok
}

// Column returns every row's value for name, with nil for missing cells.
func (t *Table) Column(name string) []any {
	out := make([]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[name]
	}
	return out
}

// Head returns a table holding the first n rows. Columns keep the order of
// the full table but only those present in the kept rows are listed.
func (t *Table) Head(n int) *Table {
	if n < 0 || n > len(t.rows) {
		n = len(t.rows)
	}
	h := New()
	for _, r := range t.rows[:n] {
		h.Append(r, t.columns...)
	}
	return h
}

// FormatValue renders a cell for display: strings verbatim, nulls empty,
// everything else as compact JSON.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return fmt.Sprintf("%d", x)
	case bool:
		return fmt.Sprintf("%t", x)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
