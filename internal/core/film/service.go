package film

import (
	"context"
	"log/slog"

	"github.com/kinora/kinora/internal/platform/apperr"
	"github.com/kinora/kinora/internal/platform/validate"
)

type Service struct {
	repo   Repository
	users  UserDirectory
	cache  *Cache // nil when no cache is configured
	logger *slog.Logger
}

func NewService(repo Repository, users UserDirectory, cache *Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		cache:  cache,
		logger: logger,
	}
}

func (service *Service) ListFilms(context context.Context) ([]*Film, error) {
	return service.repo.List(context)
}

func (service *Service) GetFilm(context context.Context, id int64) (*Film, error) {
	return service.repo.Get(context, id)
}

// CreateFilm validates the payload, collapses duplicate genres, backfills
// the id when zero, and persists the film.
func (service *Service) CreateFilm(context context.Context, film *Film) error {
	if err := validateFilm(film); err != nil {
		return err
	}

	if film.ID == 0 {
		id, err := service.repo.NextID(context)
		if err != nil {
			return err
		}
		film.ID = id
	}

	film.Normalize()

	if err := service.repo.Create(context, film); err != nil {
		return err
	}

	service.invalidatePopular(context)
	service.logger.Info("film_created",
		slog.Int64("film_id", film.ID),
		slog.String("name", film.Name),
	)
	return nil
}

// UpdateFilm overwrites an existing film, rewriting its genre and like sets.
func (service *Service) UpdateFilm(context context.Context, film *Film) error {
	if err := validateFilm(film); err != nil {
		return err
	}

	// id 0 is "never assigned", which reads as a missing resource.
	if err := service.checkFilmExists(context, film.ID); err != nil {
		return err
	}

	film.Normalize()

	if err := service.repo.Update(context, film); err != nil {
		return err
	}

	service.invalidatePopular(context)
	service.logger.Info("film_updated", slog.Int64("film_id", film.ID))
	return nil
}

func (service *Service) DeleteAllFilms(context context.Context) error {
	if err := service.repo.DeleteAll(context); err != nil {
		return err
	}

	service.invalidatePopular(context)
	service.logger.Warn("films_deleted_all")
	return nil
}

// # Like Operations

// AddLike records that a user liked a film. Both endpoints must exist.
// Liking the same film twice is a no-op.
func (service *Service) AddLike(context context.Context, filmID, userID int64) error {
	if err := service.checkFilmExists(context, filmID); err != nil {
		return err
	}
	if err := service.checkUserExists(context, userID); err != nil {
		return err
	}

	if err := service.repo.AddLike(context, filmID, userID); err != nil {
		return err
	}

	service.invalidatePopular(context)
	service.logger.Info("like_added",
		slog.Int64("film_id", filmID),
		slog.Int64("user_id", userID),
	)
	return nil
}

// DeleteLike removes a like edge. Removing an absent like is a no-op,
// but both the film and the user must exist.
func (service *Service) DeleteLike(context context.Context, filmID, userID int64) error {
	if err := service.checkFilmExists(context, filmID); err != nil {
		return err
	}
	if err := service.checkUserExists(context, userID); err != nil {
		return err
	}

	if err := service.repo.DeleteLike(context, filmID, userID); err != nil {
		return err
	}

	service.invalidatePopular(context)
	service.logger.Info("like_deleted",
		slog.Int64("film_id", filmID),
		slog.Int64("user_id", userID),
	)
	return nil
}

// Popular returns up to count films ranked by like-count descending,
// ties broken by ascending id. The ranking is served from the cache when
// one is configured; storage is the fallback and refills the cache.
func (service *Service) Popular(context context.Context, count int) ([]*Film, error) {
	if count <= 0 {
		return nil, validate.RequiredError(FieldCount, "Must be a positive number")
	}

	if service.cache != nil {
		if films, ok := service.cache.GetPopular(context, count); ok {
			return films, nil
		}
	}

	films, err := service.repo.ListPopular(context, count)
	if err != nil {
		return nil, err
	}

	if service.cache != nil {
		service.cache.SetPopular(context, count, films)
	}
	return films, nil
}

// # Helpers

func (service *Service) checkFilmExists(context context.Context, id int64) error {
	if id == 0 {
		return apperr.NotFoundID("Film", id)
	}
	exists, err := service.repo.Exists(context, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFoundID("Film", id)
	}
	return nil
}

func (service *Service) checkUserExists(context context.Context, id int64) error {
	exists, err := service.users.Exists(context, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFoundID("User", id)
	}
	return nil
}

// invalidatePopular drops stale ranking entries after any mutation.
// Cache failures are logged, never surfaced: the repository is the
// source of truth.
func (service *Service) invalidatePopular(context context.Context) {
	if service.cache == nil {
		return
	}
	if err := service.cache.InvalidatePopular(context); err != nil {
		service.logger.Warn("popular_cache_invalidate_failed", slog.Any("error", err))
	}
}

func validateFilm(film *Film) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, film.Name)
	validator.MaxLen(FieldDescription, film.Description, MaxDescriptionLen)
	validator.RequiredDate(FieldReleaseDate, film.ReleaseDate.Time)
	validator.NotBefore(FieldReleaseDate, film.ReleaseDate.Time, MinReleaseDate.Time)
	validator.Positive(FieldDuration, film.Duration)
	validator.Custom(FieldMpa, film.Mpa == nil, "This field is required")

	return validator.Err()
}
