package mpa

import (
	"context"
	"sort"
	"sync"

	"github.com/kinora/kinora/internal/platform/apperr"
)

// Vocabulary returns the seed reference set. It matches the rows installed
// by the SQL migrations so both storage drivers expose identical data.
func Vocabulary() []*Rating {
	return []*Rating{
		{ID: 1, Name: "G"},
		{ID: 2, Name: "PG"},
		{ID: 3, Name: "PG-13"},
		{ID: 4, Name: "R"},
		{ID: 5, Name: "NC-17"},
	}
}

// MemoryRepository implements [Repository] with a process-local map.
type MemoryRepository struct {
	mu      sync.RWMutex
	ratings map[int]*Rating
}

// NewMemoryRepository constructs a memory store seeded with [Vocabulary].
func NewMemoryRepository() *MemoryRepository {
	repository := &MemoryRepository{ratings: make(map[int]*Rating)}
	for _, rating := range Vocabulary() {
		repository.ratings[rating.ID] = rating
	}
	return repository
}

func (repository *MemoryRepository) List(context context.Context) ([]*Rating, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	ratings := make([]*Rating, 0, len(repository.ratings))
	for _, rating := range repository.ratings {
		ratings = append(ratings, rating)
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].ID < ratings[j].ID })
	return ratings, nil
}

func (repository *MemoryRepository) Get(context context.Context, id int) (*Rating, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	rating, ok := repository.ratings[id]
	if !ok {
		return nil, apperr.NotFoundID("Mpa rating", int64(id))
	}
	return rating, nil
}
