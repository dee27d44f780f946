package genre

import (
	"context"
	"sort"
	"sync"

	"github.com/kinora/kinora/internal/platform/apperr"
)

// Vocabulary returns the seed reference set. It matches the rows installed
// by the SQL migrations so both storage drivers expose identical data.
func Vocabulary() []*Genre {
	return []*Genre{
		{ID: 1, Name: "Comedy"},
		{ID: 2, Name: "Drama"},
		{ID: 3, Name: "Animation"},
		{ID: 4, Name: "Thriller"},
		{ID: 5, Name: "Documentary"},
		{ID: 6, Name: "Action"},
	}
}

// MemoryRepository implements [Repository] with a process-local map.
// The vocabulary is read-mostly; the lock exists for interface symmetry
// with the mutable stores.
type MemoryRepository struct {
	mu     sync.RWMutex
	genres map[int]*Genre
}

// NewMemoryRepository constructs a memory store seeded with [Vocabulary].
func NewMemoryRepository() *MemoryRepository {
	repository := &MemoryRepository{genres: make(map[int]*Genre)}
	for _, genre := range Vocabulary() {
		repository.genres[genre.ID] = genre
	}
	return repository
}

func (repository *MemoryRepository) List(context context.Context) ([]*Genre, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	genres := make([]*Genre, 0, len(repository.genres))
	for _, genre := range repository.genres {
		genres = append(genres, genre)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	return genres, nil
}

func (repository *MemoryRepository) Get(context context.Context, id int) (*Genre, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	genre, ok := repository.genres[id]
	if !ok {
		return nil, apperr.NotFoundID("Genre", int64(id))
	}
	return genre, nil
}
