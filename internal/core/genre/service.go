package genre

import (
	"context"
	"log/slog"

	"github.com/kinora/kinora/internal/platform/apperr"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListGenres(context context.Context) ([]*Genre, error) {
	return service.repo.List(context)
}

func (service *Service) GetGenre(context context.Context, id int) (*Genre, error) {
	// An unassigned id is "missing", not a malformed field.
	if id <= 0 {
		return nil, apperr.NotFoundID("Genre", int64(id))
	}
	return service.repo.Get(context, id)
}
