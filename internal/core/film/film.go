package film

import (
	"time"

	"github.com/kinora/kinora/internal/core/genre"
	"github.com/kinora/kinora/internal/core/mpa"
	"github.com/kinora/kinora/pkg/date"
	"github.com/kinora/kinora/pkg/slice"
)

// MinReleaseDate is the earliest acceptable release date: the first public
// film screening (Lumière brothers, 1895-12-28).
var MinReleaseDate = date.New(1895, time.December, 28)

// MaxDescriptionLen caps the synopsis length.
const MaxDescriptionLen = 200

// Film is a catalogue entry users can like.
//
// Genres is an ordered set: unique by genre id, client insertion order
// preserved, duplicates collapsed on write. Likes holds the ids of users
// who liked the film.
type Film struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ReleaseDate date.Date     `json:"releaseDate"`
	Duration    int           `json:"duration"`
	Mpa         *mpa.Rating   `json:"mpa"`
	Genres      []genre.Genre `json:"genres"`
	Likes       []int64       `json:"likes"`
}

// Normalize collapses duplicate genres (by id, keeping the first
// occurrence) and duplicate likes. Applied once at the write boundary.
func (f *Film) Normalize() {
	f.Genres = slice.UniqueBy(f.Genres, func(g genre.Genre) int { return g.ID })
	f.Likes = slice.Unique(f.Likes)
}

// Global field names for validation
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldReleaseDate = "releaseDate"
	FieldDuration    = "duration"
	FieldMpa         = "mpa"
	FieldCount       = "count"
)
