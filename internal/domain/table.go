package domain

import (
	"fmt"
	"slices"
	"time"
)

// Kind enumerates the storage types a table column can hold.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Column is a single named column of homogeneous values. Exactly one of the
// value slices is populated, matching Kind. Missing marks cells with no
// usable value: empty source cells and sanitized coordinate sentinels.
type Column struct {
	Name    string
	Kind    Kind
	Ints    []int64
	Floats  []float64
	Strings []string
	Missing []bool
}

// Len returns the column's cell count.
func (c *Column) Len() int {
	switch c.Kind {
	case KindInt:
		return len(c.Ints)
	case KindFloat:
		return len(c.Floats)
	default:
		return len(c.Strings)
	}
}

// clone deep-copies the column so derived tables never alias source storage.
func (c *Column) clone() Column {
	return Column{
		Name:    c.Name,
		Kind:    c.Kind,
		Ints:    slices.Clone(c.Ints),
		Floats:  slices.Clone(c.Floats),
		Strings: slices.Clone(c.Strings),
		Missing: slices.Clone(c.Missing),
	}
}

// floatAt reads a cell as float64, widening integer columns. ok is false for
// string columns and missing cells.
func (c *Column) floatAt(row int) (float64, bool) {
	if c.Missing[row] {
		return 0, false
	}
	switch c.Kind {
	case KindFloat:
		return c.Floats[row], true
	case KindInt:
		return float64(c.Ints[row]), true
	default:
		return 0, false
	}
}

// Table is an ordered collection of rows with named, typed columns, loaded
// from a single accident file. Tables are immutable by convention: every
// transformation ([Table.Filter], [Table.Select], [SanitizeCoordinates])
// returns a new table and leaves the receiver and the source file untouched.
type Table struct {
	Source   string    // path the table was loaded from
	LoadedAt time.Time // load timestamp from the package clock

	cols   []Column
	byName map[string]int
	rows   int
}

// NewTable builds a table from columns, validating that column names are
// unique and non-empty and that every column has the same length. A nil
// Missing mask is normalized to all-present.
func NewTable(source string, cols []Column) (*Table, error) {
	t := &Table{
		Source:   source,
		LoadedAt: clock.Now(),
		byName:   make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), t.rows)
		}
		if c.Missing == nil {
			c.Missing = make([]bool, c.Len())
		} else if len(c.Missing) != c.Len() {
			return nil, fmt.Errorf("column %q missing mask has %d entries, want %d", c.Name, len(c.Missing), c.Len())
		}
		t.byName[c.Name] = i
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// NumRows returns the table's row count.
func (t *Table) NumRows() int { return t.rows }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Column returns the named column. The pointer aliases table storage and
// must not be written through.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return &t.cols[i], true
}

// IsMissing reports whether the cell at (name, row) carries no usable value.
// Absent columns and out-of-range rows count as missing.
func (t *Table) IsMissing(name string, row int) bool {
	c, ok := t.Column(name)
	if !ok || row < 0 || row >= t.rows {
		return true
	}
	return c.Missing[row]
}

// IntAt returns the integer cell at (name, row). ok is false when the column
// is absent or non-integer, the row is out of range, or the cell is missing.
func (t *Table) IntAt(name string, row int) (int64, bool) {
	c, ok := t.Column(name)
	if !ok || c.Kind != KindInt || row < 0 || row >= t.rows || c.Missing[row] {
		return 0, false
	}
	return c.Ints[row], true
}

// FloatAt returns the numeric cell at (name, row), widening integer columns
// to float64. ok is false for absent or string columns, out-of-range rows,
// and missing cells.
func (t *Table) FloatAt(name string, row int) (float64, bool) {
	c, ok := t.Column(name)
	if !ok || row < 0 || row >= t.rows {
		return 0, false
	}
	return c.floatAt(row)
}

// StringAt returns the string cell at (name, row). ok is false when the
// column is absent or non-string, the row is out of range, or the cell is
// missing.
func (t *Table) StringAt(name string, row int) (string, bool) {
	c, ok := t.Column(name)
	if !ok || c.Kind != KindString || row < 0 || row >= t.rows || c.Missing[row] {
		return "", false
	}
	return c.Strings[row], true
}

// DistinctInts returns the sorted distinct values of an integer column,
// skipping missing cells. Returns nil for absent or non-integer columns.
func (t *Table) DistinctInts(name string) []int64 {
	c, ok := t.Column(name)
	if !ok || c.Kind != KindInt {
		return nil
	}
	seen := make(map[int64]struct{})
	for i, v := range c.Ints {
		if c.Missing[i] {
			continue
		}
		seen[v] = struct{}{}
	}
	out := make([]int64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Filter returns a new table holding, in order, the rows for which keep
// returns true. Cell storage is copied, never aliased.
func (t *Table) Filter(keep func(row int) bool) *Table {
	idx := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return t.take(idx)
}

// Select returns a new table restricted to the named columns, in the order
// given. Unknown names are an error.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{
		Source:   t.Source,
		LoadedAt: t.LoadedAt,
		byName:   make(map[string]int, len(names)),
		rows:     t.rows,
	}
	for i, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("select: no column %q", name)
		}
		if _, dup := out.byName[name]; dup {
			return nil, fmt.Errorf("select: duplicate column %q", name)
		}
		out.byName[name] = i
		out.cols = append(out.cols, c.clone())
	}
	return out, nil
}

// WithColumn returns a new table with col appended. The column must match
// the table's row count and must not collide with an existing name.
func (t *Table) WithColumn(col Column) (*Table, error) {
	if _, dup := t.byName[col.Name]; dup {
		return nil, fmt.Errorf("column %q already exists", col.Name)
	}
	if col.Len() != t.rows {
		return nil, fmt.Errorf("column %q has %d rows, want %d", col.Name, col.Len(), t.rows)
	}
	if col.Missing == nil {
		col.Missing = make([]bool, col.Len())
	}
	out := t.clone()
	out.byName[col.Name] = len(out.cols)
	out.cols = append(out.cols, col.clone())
	return out, nil
}

// clone deep-copies the table.
func (t *Table) clone() *Table {
	out := &Table{
		Source:   t.Source,
		LoadedAt: t.LoadedAt,
		byName:   make(map[string]int, len(t.cols)),
		rows:     t.rows,
	}
	for i, c := range t.cols {
		out.byName[c.Name] = i
		out.cols = append(out.cols, c.clone())
	}
	return out
}

// take builds a row-subset copy preserving column order and types.
func (t *Table) take(idx []int) *Table {
	out := &Table{
		Source:   t.Source,
		LoadedAt: t.LoadedAt,
		byName:   make(map[string]int, len(t.cols)),
		rows:     len(idx),
	}
	for i, c := range t.cols {
		nc := Column{Name: c.Name, Kind: c.Kind, Missing: make([]bool, len(idx))}
		switch c.Kind {
		case KindInt:
			nc.Ints = make([]int64, len(idx))
			for j, r := range idx {
				nc.Ints[j] = c.Ints[r]
			}
		case KindFloat:
			nc.Floats = make([]float64, len(idx))
			for j, r := range idx {
				nc.Floats[j] = c.Floats[r]
			}
		case KindString:
			nc.Strings = make([]string, len(idx))
			for j, r := range idx {
				nc.Strings[j] = c.Strings[r]
			}
		}
		for j, r := range idx {
			nc.Missing[j] = c.Missing[r]
		}
		out.byName[c.Name] = i
		out.cols = append(out.cols, nc)
	}
	return out
}
