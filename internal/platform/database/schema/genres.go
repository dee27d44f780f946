package schema

// GenresTable represents the 'genres' reference table
type GenresTable struct {
	Table string
	ID    string
	Name  string
}

// Genres is the schema definition for genres
var Genres = GenresTable{
	Table: "genres",
	ID:    "genre_id",
	Name:  "genre_name",
}

func (t GenresTable) Columns() []string {
	return []string{t.ID, t.Name}
}
