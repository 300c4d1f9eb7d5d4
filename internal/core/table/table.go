package table

import (
	"fmt"
	"strings"
)

// placeholderPrefix names columns whose header cell was empty in the raw
// export. Such columns are treated like pandas "Unnamed" columns: they are
// excluded from forward-fill and are candidates for header promotion.
const placeholderPrefix = "unnamed_"

// Column is a single named column of string cells. An empty string is a null.
type Column struct {
	Name   string
	Values []string
}

// Table is an ordered set of equally sized string columns, the working
// representation of one raw POS export between reading and typed parsing.
type Table struct {
	Cols []Column
}

// New builds a table from a header and data rows. Empty header cells get a
// placeholder name, duplicated header names get a numeric suffix. Ragged rows
// are padded with nulls to the header width.
func New(header []string, rows [][]string) *Table {
	seen := map[string]int{}
	cols := make([]Column, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("%s%d", placeholderPrefix, i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 1
		}
		cols[i] = Column{Name: name, Values: make([]string, len(rows))}
	}
	for r, row := range rows {
		for c := range cols {
			if c < len(row) {
				cols[c].Values[r] = strings.TrimSpace(row[c])
			}
		}
	}
	return &Table{Cols: cols}
}

// PlaceholderName reports whether a column name was generated for an empty
// header cell.
func PlaceholderName(name string) bool {
	return strings.HasPrefix(name, placeholderPrefix)
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int {
	if len(t.Cols) == 0 {
		return 0
	}
	return len(t.Cols[0].Values)
}

// NumCols returns the number of columns
func (t *Table) NumCols() int {
	return len(t.Cols)
}

// Header returns the column names in order
func (t *Table) Header() []string {
	names := make([]string, len(t.Cols))
	for i, c := range t.Cols {
		names[i] = c.Name
	}
	return names
}

// Col returns the column with the given name, or nil
func (t *Table) Col(name string) *Column {
	for i := range t.Cols {
		if t.Cols[i].Name == name {
			return &t.Cols[i]
		}
	}
	return nil
}

// HasCol reports whether a column with the given name exists
func (t *Table) HasCol(name string) bool {
	return t.Col(name) != nil
}

// Rename renames columns according to the mapping. Unknown names are ignored.
func (t *Table) Rename(mapping map[string]string) {
	for i := range t.Cols {
		if to, ok := mapping[t.Cols[i].Name]; ok {
			t.Cols[i].Name = to
		}
	}
}

// Select keeps only the named columns, in the given order. Missing columns
// are reported as an error so register profiles fail loudly on layout drift.
func (t *Table) Select(names []string) error {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		c := t.Col(name)
		if c == nil {
			return fmt.Errorf("column %q not found in export", name)
		}
		cols = append(cols, *c)
	}
	t.Cols = cols
	return nil
}

// DropCols removes the named columns if present
func (t *Table) DropCols(names ...string) {
	drop := map[string]bool{}
	for _, n := range names {
		drop[n] = true
	}
	kept := t.Cols[:0]
	for _, c := range t.Cols {
		if !drop[c.Name] {
			kept = append(kept, c)
		}
	}
	t.Cols = kept
}

// AppendCol appends a column. The value count must match the row count.
func (t *Table) AppendCol(name string, values []string) {
	t.Cols = append(t.Cols, Column{Name: name, Values: values})
}

// DropRow removes the data row at the given index
func (t *Table) DropRow(idx int) {
	for i := range t.Cols {
		v := t.Cols[i].Values
		t.Cols[i].Values = append(v[:idx], v[idx+1:]...)
	}
}

// keepRows retains only the rows whose index passes the predicate
func (t *Table) keepRows(keep func(row int) bool) {
	n := t.NumRows()
	kept := make([]int, 0, n)
	for r := 0; r < n; r++ {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	if len(kept) == n {
		return
	}
	for i := range t.Cols {
		vals := make([]string, len(kept))
		for j, r := range kept {
			vals[j] = t.Cols[i].Values[r]
		}
		t.Cols[i].Values = vals
	}
}

// DropHeaderEchoColumns removes columns whose data values echo any header
// label, an artifact of multi-row headers collapsed into one row.
func (t *Table) DropHeaderEchoColumns() {
	labels := map[string]bool{}
	for _, name := range t.Header() {
		labels[name] = true
	}
	kept := t.Cols[:0]
	for _, c := range t.Cols {
		echo := false
		for _, v := range c.Values {
			if v != "" && labels[v] {
				echo = true
				break
			}
		}
		if !echo {
			kept = append(kept, c)
		}
	}
	t.Cols = kept
}

// DropEmptyRows removes rows whose cells are all null
func (t *Table) DropEmptyRows() {
	t.keepRows(func(r int) bool {
		for _, c := range t.Cols {
			if c.Values[r] != "" {
				return true
			}
		}
		return false
	})
}

// DropEmptyColumns removes columns whose cells are all null
func (t *Table) DropEmptyColumns() {
	kept := t.Cols[:0]
	for _, c := range t.Cols {
		empty := true
		for _, v := range c.Values {
			if v != "" {
				empty = false
				break
			}
		}
		if !empty {
			kept = append(kept, c)
		}
	}
	t.Cols = kept
}

// DropConstantColumns removes columns carrying fewer than two distinct
// non-null values; they carry no information for analysis.
func (t *Table) DropConstantColumns() {
	kept := t.Cols[:0]
	for _, c := range t.Cols {
		distinct := map[string]bool{}
		for _, v := range c.Values {
			if v != "" {
				distinct[v] = true
			}
			if len(distinct) > 1 {
				break
			}
		}
		if len(distinct) > 1 {
			kept = append(kept, c)
		}
	}
	t.Cols = kept
}

// DropDuplicateColumns removes columns whose data is identical to an earlier
// column (duplicate under transposition); the first occurrence wins.
func (t *Table) DropDuplicateColumns() {
	seen := map[string]bool{}
	kept := t.Cols[:0]
	for _, c := range t.Cols {
		key := strings.Join(c.Values, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, c)
	}
	t.Cols = kept
}

// ForwardFill propagates the last non-null value downward in every column not
// carrying a placeholder name, restoring values lost to merged cells.
func (t *Table) ForwardFill() {
	for i := range t.Cols {
		if PlaceholderName(t.Cols[i].Name) {
			continue
		}
		last := ""
		for r, v := range t.Cols[i].Values {
			if v == "" {
				t.Cols[i].Values[r] = last
			} else {
				last = v
			}
		}
	}
}

// ColumnsWhereValueContains returns the names of columns where any data value
// contains the given token. Used to discover the scattered raw columns that
// all carry the same logical attribute.
func (t *Table) ColumnsWhereValueContains(token string) []string {
	var names []string
	for _, c := range t.Cols {
		for _, v := range c.Values {
			if v != "" && strings.Contains(v, token) {
				names = append(names, c.Name)
				break
			}
		}
	}
	return names
}

// Coalesce builds a new column named name by taking, per row, the first
// non-null value across the candidate columns in order, then drops the
// candidates.
func (t *Table) Coalesce(name string, candidates []string) {
	n := t.NumRows()
	values := make([]string, n)
	for _, cand := range candidates {
		c := t.Col(cand)
		if c == nil {
			continue
		}
		for r := 0; r < n; r++ {
			if values[r] == "" {
				values[r] = c.Values[r]
			}
		}
	}
	t.DropCols(candidates...)
	t.AppendCol(name, values)
}

// DropRowsWithNulls removes every row still containing a null cell
func (t *Table) DropRowsWithNulls() {
	t.keepRows(func(r int) bool {
		for _, c := range t.Cols {
			if c.Values[r] == "" {
				return false
			}
		}
		return true
	})
}

// PromoteFirstRowHeaders renames placeholder columns after their first data
// row value, removes rows that duplicate any header label, and re-applies the
// constant-column filter.
func (t *Table) PromoteFirstRowHeaders() {
	if t.NumRows() == 0 {
		return
	}
	for i := range t.Cols {
		if PlaceholderName(t.Cols[i].Name) && t.Cols[i].Values[0] != "" {
			t.Cols[i].Name = t.Cols[i].Values[0]
		}
	}
	labels := map[string]bool{}
	for _, name := range t.Header() {
		labels[name] = true
	}
	t.keepRows(func(r int) bool {
		for _, c := range t.Cols {
			if labels[c.Values[r]] {
				return false
			}
		}
		return true
	})
	t.DropConstantColumns()
}
