package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// LoadOptions controls how a raw file becomes a Table.
type LoadOptions struct {
	// Delimiter for CSV. If 0, derived from the file extension.
	Delimiter rune
	// SheetName selects an XLSX sheet by name. Takes precedence over SheetIndex.
	SheetName string
	// SheetIndex is the 1-based XLSX sheet index; 0 means the first sheet.
	SheetIndex int
	Schema     Schema
}

// DefaultLoadOptions returns options for the treatment dataset conventions.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Schema: DefaultSchema()}
}

// Loader reads a tabular file into a Table.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt LoadOptions) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// LoadFile selects a loader from the file name, reads the file and assigns
// column roles from opt.Schema.
func LoadFile(path string, opt LoadOptions) (*Table, error) {
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		t, err := l.Load(path, opt)
		if err != nil {
			return nil, err
		}
		opt.Schema.Assign(t)
		return t, nil
	}
	return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
}

// fromRecords turns a header plus string rows into a Table. Short rows are
// padded with missing cells, extra cells are dropped.
func fromRecords(header []string, rows [][]string) *Table {
	t := New(len(rows))
	seen := map[string]int{}
	for j, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", j)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		vals := make([]Value, len(rows))
		for i, r := range rows {
			if j < len(r) {
				vals[i] = ParseCell(r[j])
			}
		}
		t.MustSet(&Column{Name: name, Values: vals})
	}
	return t
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
