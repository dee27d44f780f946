package film

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kinora/kinora/internal/core/genre"
	"github.com/kinora/kinora/internal/core/mpa"
	"github.com/kinora/kinora/internal/platform/apperr"
)

// MemoryRepository implements [Repository] with a process-local map and a
// monotonic id counter, both guarded by one mutex.
//
// Genre and MPA names are resolved against the reference repositories on
// write, mirroring the foreign keys the relational store enforces: an
// unknown genre or rating id fails with NotFound.
type MemoryRepository struct {
	mu    sync.RWMutex
	seq   int64
	films map[int64]*Film

	genres  genre.Repository
	ratings mpa.Repository
}

// NewMemoryRepository constructs an empty in-process film store backed by
// the given reference vocabularies.
func NewMemoryRepository(genres genre.Repository, ratings mpa.Repository) *MemoryRepository {
	return &MemoryRepository{
		films:   make(map[int64]*Film),
		genres:  genres,
		ratings: ratings,
	}
}

func (repository *MemoryRepository) NextID(context context.Context) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.seq++
	return repository.seq, nil
}

func (repository *MemoryRepository) Get(context context.Context, id int64) (*Film, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	stored, ok := repository.films[id]
	if !ok {
		return nil, apperr.NotFoundID("Film", id)
	}
	return cloneFilm(stored), nil
}

func (repository *MemoryRepository) List(context context.Context) ([]*Film, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	films := make([]*Film, 0, len(repository.films))
	for _, stored := range repository.films {
		films = append(films, cloneFilm(stored))
	}
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films, nil
}

func (repository *MemoryRepository) Create(context context.Context, film *Film) error {
	resolved, err := repository.resolveReferences(context, film)
	if err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.films[film.ID]; ok {
		return apperr.Conflict(fmt.Sprintf("Film with id=%d already exists", film.ID))
	}

	// Keep the sequence ahead of explicitly supplied ids.
	if film.ID > repository.seq {
		repository.seq = film.ID
	}

	repository.films[film.ID] = resolved
	*film = *cloneFilm(resolved)
	return nil
}

func (repository *MemoryRepository) Update(context context.Context, film *Film) error {
	resolved, err := repository.resolveReferences(context, film)
	if err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.films[film.ID]; !ok {
		return apperr.NotFoundID("Film", film.ID)
	}

	// Full overwrite: scalar fields, genres, and likes alike.
	repository.films[film.ID] = resolved
	*film = *cloneFilm(resolved)
	return nil
}

func (repository *MemoryRepository) DeleteAll(context context.Context) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	// The sequence keeps counting; deleted ids are never reassigned.
	repository.films = make(map[int64]*Film)
	return nil
}

func (repository *MemoryRepository) Exists(context context.Context, id int64) (bool, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	_, ok := repository.films[id]
	return ok, nil
}

// # Like Edges

func (repository *MemoryRepository) AddLike(context context.Context, filmID, userID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.films[filmID]
	if !ok {
		return apperr.NotFoundID("Film", filmID)
	}

	for _, id := range stored.Likes {
		if id == userID {
			return nil // duplicate edge, no-op
		}
	}
	stored.Likes = append(stored.Likes, userID)
	return nil
}

func (repository *MemoryRepository) DeleteLike(context context.Context, filmID, userID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.films[filmID]
	if !ok {
		return apperr.NotFoundID("Film", filmID)
	}

	for i, id := range stored.Likes {
		if id == userID {
			stored.Likes = append(stored.Likes[:i], stored.Likes[i+1:]...)
			return nil
		}
	}
	return nil // absent edge, no-op
}

func (repository *MemoryRepository) ListPopular(context context.Context, count int) ([]*Film, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	films := make([]*Film, 0, len(repository.films))
	for _, stored := range repository.films {
		films = append(films, cloneFilm(stored))
	}

	// Like-count descending, ties broken by ascending id.
	sort.Slice(films, func(i, j int) bool {
		if len(films[i].Likes) != len(films[j].Likes) {
			return len(films[i].Likes) > len(films[j].Likes)
		}
		return films[i].ID < films[j].ID
	})

	if count < len(films) {
		films = films[:count]
	}
	return films, nil
}

// resolveReferences replaces the rating and each genre with its canonical
// vocabulary entry, failing with NotFound for unknown ids.
func (repository *MemoryRepository) resolveReferences(context context.Context, film *Film) (*Film, error) {
	resolved := cloneFilm(film)

	if resolved.Mpa != nil {
		rating, err := repository.ratings.Get(context, resolved.Mpa.ID)
		if err != nil {
			return nil, err
		}
		resolved.Mpa = rating
	}

	for i, g := range resolved.Genres {
		canonical, err := repository.genres.Get(context, g.ID)
		if err != nil {
			return nil, err
		}
		resolved.Genres[i] = *canonical
	}

	return resolved, nil
}

// cloneFilm copies the entity so callers never alias internal state.
func cloneFilm(film *Film) *Film {
	clone := *film
	if film.Mpa != nil {
		rating := *film.Mpa
		clone.Mpa = &rating
	}
	clone.Genres = append([]genre.Genre(nil), film.Genres...)
	clone.Likes = append([]int64(nil), film.Likes...)
	return &clone
}
