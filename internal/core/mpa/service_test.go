package mpa_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinora/kinora/internal/core/mpa"
	"github.com/kinora/kinora/internal/platform/apperr"
)

func newService() *mpa.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mpa.NewService(mpa.NewMemoryRepository(), logger)
}

/*
TestMpaService_List verifies the full rating vocabulary in id order.
*/
func TestMpaService_List(t *testing.T) {
	service := newService()

	ratings, err := service.ListRatings(context.Background())
	require.NoError(t, err)
	require.Len(t, ratings, 5)

	assert.Equal(t, "G", ratings[0].Name)
	assert.Equal(t, "NC-17", ratings[4].Name)
}

/*
TestMpaService_Get verifies lookup by id, with NotFound outside the
closed set.
*/
func TestMpaService_Get(t *testing.T) {
	service := newService()
	ctx := context.Background()

	rating, err := service.GetRating(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "PG-13", rating.Name)

	for _, id := range []int{0, 99} {
		_, err := service.GetRating(ctx, id)
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
	}
}
