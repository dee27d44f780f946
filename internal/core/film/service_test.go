package film_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinora/kinora/internal/core/film"
	"github.com/kinora/kinora/internal/core/genre"
	"github.com/kinora/kinora/internal/core/mpa"
	"github.com/kinora/kinora/internal/core/user"
	"github.com/kinora/kinora/internal/platform/apperr"
	"github.com/kinora/kinora/pkg/date"
)

type fixture struct {
	films *film.Service
	users *user.Service
}

func newFixture() *fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userRepo := user.NewMemoryRepository()
	filmRepo := film.NewMemoryRepository(genre.NewMemoryRepository(), mpa.NewMemoryRepository())

	return &fixture{
		films: film.NewService(filmRepo, userRepo, nil, logger),
		users: user.NewService(userRepo, logger),
	}
}

func validFilm(name string) *film.Film {
	return &film.Film{
		Name:        name,
		Description: "adipisicing",
		ReleaseDate: date.New(1967, time.March, 25),
		Duration:    100,
		Mpa:         &mpa.Rating{ID: 1},
	}
}

func (f *fixture) addUser(t *testing.T, login string) int64 {
	t.Helper()
	u := &user.User{
		Email:    login + "@mail.ru",
		Login:    login,
		Birthday: date.New(1990, time.January, 1),
	}
	require.NoError(t, f.users.CreateUser(context.Background(), u))
	return u.ID
}

/*
TestFilmService_Create verifies id assignment and that reference names are
resolved from the vocabulary, whatever the client sent.
*/
func TestFilmService_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	input := validFilm("nisi eiusmod")
	input.Mpa = &mpa.Rating{ID: 1, Name: "wrong name"}
	input.Genres = []genre.Genre{{ID: 2, Name: "also wrong"}}

	require.NoError(t, f.films.CreateFilm(ctx, input))
	assert.Equal(t, int64(1), input.ID)

	stored, err := f.films.GetFilm(ctx, input.ID)
	require.NoError(t, err)
	assert.Equal(t, "G", stored.Mpa.Name)
	require.Len(t, stored.Genres, 1)
	assert.Equal(t, "Drama", stored.Genres[0].Name)
}

/*
TestFilmService_Create_Validation covers the boundary rules: name,
description length, release date floor, duration, and the mandatory rating.
*/
func TestFilmService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*film.Film)
		isValid bool
	}{
		{"empty_name", func(f *film.Film) { f.Name = "" }, false},
		{"description_at_limit", func(f *film.Film) { f.Description = strings.Repeat("a", 200) }, true},
		{"description_over_limit", func(f *film.Film) { f.Description = strings.Repeat("a", 201) }, false},
		{"release_at_floor", func(f *film.Film) { f.ReleaseDate = date.New(1895, time.December, 28) }, true},
		{"release_before_floor", func(f *film.Film) { f.ReleaseDate = date.New(1895, time.December, 27) }, false},
		{"missing_release_date", func(f *film.Film) { f.ReleaseDate = date.Date{} }, false},
		{"zero_duration", func(f *film.Film) { f.Duration = 0 }, false},
		{"negative_duration", func(f *film.Film) { f.Duration = -200 }, false},
		{"missing_mpa", func(f *film.Film) { f.Mpa = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			input := validFilm("labore nulla")
			tt.mutate(input)

			err := f.films.CreateFilm(context.Background(), input)
			if tt.isValid {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

/*
TestFilmService_Create_UnknownReference verifies NotFound for vocabulary
ids outside the closed set.
*/
func TestFilmService_Create_UnknownReference(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	input := validFilm("bad rating")
	input.Mpa = &mpa.Rating{ID: 99}
	err := f.films.CreateFilm(ctx, input)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 404, ae.HTTPStatus)

	input = validFilm("bad genre")
	input.Genres = []genre.Genre{{ID: 99}}
	err = f.films.CreateFilm(ctx, input)
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 404, ae.HTTPStatus)
}

/*
TestFilmService_Create_DuplicateGenres verifies the write-boundary dedup:
repeated genre ids collapse to the first occurrence, order preserved.
*/
func TestFilmService_Create_DuplicateGenres(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	input := validFilm("genre dedup")
	input.Genres = []genre.Genre{{ID: 2}, {ID: 1}, {ID: 2}, {ID: 1}}

	require.NoError(t, f.films.CreateFilm(ctx, input))

	stored, err := f.films.GetFilm(ctx, input.ID)
	require.NoError(t, err)
	require.Len(t, stored.Genres, 2)
	assert.Equal(t, 2, stored.Genres[0].ID)
	assert.Equal(t, 1, stored.Genres[1].ID)
}

/*
TestFilmService_Update verifies the full overwrite and NotFound for
unknown and never-assigned ids.
*/
func TestFilmService_Update(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	input := validFilm("original")
	require.NoError(t, f.films.CreateFilm(ctx, input))

	updated := validFilm("Film Updated")
	updated.ID = input.ID
	updated.Description = "New film update decription"
	require.NoError(t, f.films.UpdateFilm(ctx, updated))

	stored, err := f.films.GetFilm(ctx, input.ID)
	require.NoError(t, err)
	assert.Equal(t, "Film Updated", stored.Name)

	for _, id := range []int64{0, 9999} {
		missing := validFilm("ghost")
		missing.ID = id
		err := f.films.UpdateFilm(ctx, missing)
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 404, ae.HTTPStatus)
	}
}

/*
TestFilmService_Likes verifies like recording, idempotence, and the
existence checks on both endpoints.
*/
func TestFilmService_Likes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	input := validFilm("liked film")
	require.NoError(t, f.films.CreateFilm(ctx, input))
	userID := f.addUser(t, "viewer")

	require.NoError(t, f.films.AddLike(ctx, input.ID, userID))
	// Liking twice keeps a single edge.
	require.NoError(t, f.films.AddLike(ctx, input.ID, userID))

	stored, err := f.films.GetFilm(ctx, input.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{userID}, stored.Likes)

	// Unknown user and unknown film both fail with 404.
	err = f.films.AddLike(ctx, input.ID, 9999)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)

	err = f.films.AddLike(ctx, 9999, userID)
	require.Error(t, err)
	assert.Equal(t, 404, apperr.As(err).HTTPStatus)

	// Removing the like, then removing it again, both succeed.
	require.NoError(t, f.films.DeleteLike(ctx, input.ID, userID))
	require.NoError(t, f.films.DeleteLike(ctx, input.ID, userID))

	stored, err = f.films.GetFilm(ctx, input.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Likes)
}

/*
TestFilmService_Popular verifies the ranking order (like-count descending,
id ascending on ties) and the count cap.
*/
func TestFilmService_Popular(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var filmIDs []int64
	for _, name := range []string{"one", "two", "three"} {
		input := validFilm(name)
		require.NoError(t, f.films.CreateFilm(ctx, input))
		filmIDs = append(filmIDs, input.ID)
	}

	viewers := []int64{f.addUser(t, "v1"), f.addUser(t, "v2"), f.addUser(t, "v3")}

	// film two: 3 likes, film three: 1 like, film one: 0 likes.
	for _, viewer := range viewers {
		require.NoError(t, f.films.AddLike(ctx, filmIDs[1], viewer))
	}
	require.NoError(t, f.films.AddLike(ctx, filmIDs[2], viewers[0]))

	popular, err := f.films.Popular(ctx, 10)
	require.NoError(t, err)
	require.Len(t, popular, 3)
	assert.Equal(t, filmIDs[1], popular[0].ID)
	assert.Equal(t, filmIDs[2], popular[1].ID)
	assert.Equal(t, filmIDs[0], popular[2].ID)

	// The count parameter caps the result.
	popular, err = f.films.Popular(ctx, 1)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, filmIDs[1], popular[0].ID)
}

/*
TestFilmService_Popular_Ties verifies the ascending-id tie-break when
like counts are equal.
*/
func TestFilmService_Popular_Ties(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, name := range []string{"one", "two", "three"} {
		require.NoError(t, f.films.CreateFilm(ctx, validFilm(name)))
	}

	popular, err := f.films.Popular(ctx, 10)
	require.NoError(t, err)
	require.Len(t, popular, 3)
	for i, expected := range []int64{1, 2, 3} {
		assert.Equal(t, expected, popular[i].ID)
	}
}

/*
TestFilmService_Popular_InvalidCount rejects zero and negative counts.
*/
func TestFilmService_Popular_InvalidCount(t *testing.T) {
	f := newFixture()

	for _, count := range []int{0, -5} {
		_, err := f.films.Popular(context.Background(), count)
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	}
}

/*
TestFilmService_DeleteAll verifies the wipe keeps the id sequence moving
forward.
*/
func TestFilmService_DeleteAll(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.films.CreateFilm(ctx, validFilm("first")))
	require.NoError(t, f.films.DeleteAllFilms(ctx))

	films, err := f.films.ListFilms(ctx)
	require.NoError(t, err)
	assert.Empty(t, films)

	second := validFilm("second")
	require.NoError(t, f.films.CreateFilm(ctx, second))
	assert.Equal(t, int64(2), second.ID)
}
