package schema

// MpaTable represents the 'mpa' reference table
type MpaTable struct {
	Table string
	ID    string
	Name  string
}

// Mpa is the schema definition for mpa
var Mpa = MpaTable{
	Table: "mpa",
	ID:    "mpa_id",
	Name:  "mpa_name",
}

func (t MpaTable) Columns() []string {
	return []string{t.ID, t.Name}
}
