package dataset

import "strings"

// Role is the part a column plays in the pipeline. It is assigned once at
// load time and carried by the column through every stage.
type Role uint8

const (
	RoleNumeric Role = iota
	RoleCategorical
	RoleTextList
	RoleIdentifier
	RoleTarget
	// RoleIndicator marks 0/1 dummy columns produced by one-hot encoding.
	RoleIndicator
)

func (r Role) String() string {
	switch r {
	case RoleNumeric:
		return "numeric"
	case RoleCategorical:
		return "categorical"
	case RoleTextList:
		return "text-list"
	case RoleIdentifier:
		return "identifier"
	case RoleTarget:
		return "target"
	case RoleIndicator:
		return "indicator"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether columns of this role hold numbers.
func (r Role) IsNumeric() bool {
	return r == RoleNumeric || r == RoleTarget || r == RoleIndicator
}

// Schema carries the column-name conventions of the dataset.
type Schema struct {
	Target      string
	Identifier  string
	NumericText []string
	Categorical []string
	TextList    []string
}

// DefaultSchema returns the conventions of the treatment dataset.
func DefaultSchema() Schema {
	return Schema{
		Target:      "TedaviSuresi",
		Identifier:  "HastaNo",
		NumericText: []string{"TedaviSuresi", "UygulamaSuresi"},
		Categorical: []string{"Cinsiyet", "KanGrubu", "Uyruk", "Bolum", "TedaviAdi"},
		TextList:    []string{"KronikHastalik", "Alerji", "Tanilar", "UygulamaYerleri"},
	}
}

// RoleOf resolves the role of a column by name, falling back to the
// inferred role when the name is not part of the conventions.
func (s Schema) RoleOf(c *Column) Role {
	switch {
	case c.Name == s.Identifier:
		return RoleIdentifier
	case c.Name == s.Target:
		return RoleTarget
	case contains(s.NumericText, c.Name):
		return RoleNumeric
	case contains(s.Categorical, c.Name):
		return RoleCategorical
	case contains(s.TextList, c.Name):
		return RoleTextList
	}
	return Infer(c)
}

// Assign sets the role of every column in place. It is called once by the
// loaders; later stages read Column.Role instead of re-inspecting values.
func (s Schema) Assign(t *Table) {
	for _, c := range t.Columns() {
		c.Role = s.RoleOf(c)
	}
}

// Infer classifies a column from its values: numeric when every present
// cell is a number (or nothing is present), categorical otherwise.
func Infer(c *Column) Role {
	if c.AllNumeric() {
		return RoleNumeric
	}
	return RoleCategorical
}

func contains(list []string, name string) bool {
	for _, s := range list {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
