package dataset

import (
	"errors"
	"fmt"
	"sort"
)

// Column is a named, role-tagged vector of cells.
type Column struct {
	Name string
	Role Role
	// Levels optionally fixes the category order (binned features).
	Levels []string
	Values []Value
}

// NewColumn builds a column of the given role.
func NewColumn(name string, role Role, values []Value) *Column {
	return &Column{Name: name, Role: role, Values: values}
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	out := &Column{Name: c.Name, Role: c.Role}
	if c.Levels != nil {
		out.Levels = append([]string(nil), c.Levels...)
	}
	out.Values = append([]Value(nil), c.Values...)
	return out
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Values) }

// MissingCount counts missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Numbers returns the non-missing numeric cells in row order.
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// Strings returns the text of every non-missing cell in row order.
func (c *Column) Strings() []string {
	out := make([]string, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.IsMissing() {
			out = append(out, v.Text())
		}
	}
	return out
}

// AllNumeric reports whether every non-missing cell is a number.
func (c *Column) AllNumeric() bool {
	for _, v := range c.Values {
		if v.IsString() {
			return false
		}
	}
	return true
}

// ErrLengthMismatch is returned when a column does not match the table height.
var ErrLengthMismatch = errors.New("column length does not match table rows")

// Table is an ordered collection of equally long columns.
// Column order is insertion order and is preserved on output.
type Table struct {
	rows  int
	cols  []*Column
	index map[string]int
}

// New creates an empty table with a fixed number of rows.
func New(rows int) *Table {
	return &Table{rows: rows, index: make(map[string]int)}
}

// FromColumns builds a table from columns of equal length.
func FromColumns(cols ...*Column) (*Table, error) {
	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	t := New(rows)
	for _, c := range cols {
		if err := t.Set(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) Rows() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.cols) }

// Columns returns the columns in order. The slice must not be modified.
func (t *Table) Columns() []*Column { return t.cols }

// Names returns the column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Set replaces a column in place, or appends it if the name is new.
func (t *Table) Set(c *Column) error {
	if c.Len() != t.rows {
		return fmt.Errorf("%w: %s has %d values, table has %d rows", ErrLengthMismatch, c.Name, c.Len(), t.rows)
	}
	if i, ok := t.index[c.Name]; ok {
		t.cols[i] = c
		return nil
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// MustSet is Set for columns built from the table's own height.
func (t *Table) MustSet(c *Column) {
	if err := t.Set(c); err != nil {
		panic(err)
	}
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	out := New(t.rows)
	for _, c := range t.cols {
		out.MustSet(c.Clone())
	}
	return out
}

// Select returns a new table with the named columns in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	out := New(t.rows)
	for _, n := range names {
		c, ok := t.Column(n)
		if !ok {
			return nil, fmt.Errorf("select: column %q not found", n)
		}
		out.MustSet(c.Clone())
	}
	return out, nil
}

// Take returns a new table holding the given rows in the given order.
func (t *Table) Take(rows []int) *Table {
	out := New(len(rows))
	for _, c := range t.cols {
		nc := &Column{Name: c.Name, Role: c.Role, Levels: append([]string(nil), c.Levels...), Values: make([]Value, len(rows))}
		for i, r := range rows {
			nc.Values[i] = c.Values[r]
		}
		out.MustSet(nc)
	}
	return out
}

// ByRole returns the columns carrying any of the given roles, in order.
func (t *Table) ByRole(roles ...Role) []*Column {
	var out []*Column
	for _, c := range t.cols {
		for _, r := range roles {
			if c.Role == r {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// MissingCounts returns per-column missing counts for columns with any missing cell.
func (t *Table) MissingCounts() map[string]int {
	out := map[string]int{}
	for _, c := range t.cols {
		if n := c.MissingCount(); n > 0 {
			out[c.Name] = n
		}
	}
	return out
}

// Distinct returns the sorted distinct non-missing texts of a column.
func Distinct(c *Column) []string {
	seen := map[string]struct{}{}
	for _, v := range c.Values {
		if v.IsMissing() {
			continue
		}
		seen[v.Text()] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
