package user_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinora/kinora/internal/core/user"
	"github.com/kinora/kinora/internal/platform/apperr"
	"github.com/kinora/kinora/pkg/date"
)

func newService() *user.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return user.NewService(user.NewMemoryRepository(), logger)
}

func validUser(login string) *user.User {
	return &user.User{
		Email:    login + "@mail.ru",
		Login:    login,
		Name:     "Nick Name",
		Birthday: date.New(1946, time.August, 20),
	}
}

/*
TestUserService_Create verifies id assignment and persistence of a valid
payload.
*/
func TestUserService_Create(t *testing.T) {
	service := newService()
	ctx := context.Background()

	input := validUser("dolore")
	require.NoError(t, service.CreateUser(ctx, input))
	assert.Equal(t, int64(1), input.ID)

	stored, err := service.GetUser(ctx, input.ID)
	require.NoError(t, err)
	assert.Equal(t, "dolore", stored.Login)
	assert.Equal(t, "Nick Name", stored.Name)
}

/*
TestUserService_Create_NameBackfill verifies that a blank display name
falls back to the login.
*/
func TestUserService_Create_NameBackfill(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty_name", "", "common"},
		{"whitespace_name", "   ", "common"},
		{"explicit_name", "Nick Name", "Nick Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService()

			input := validUser("common")
			input.Name = tt.input
			require.NoError(t, service.CreateUser(context.Background(), input))

			assert.Equal(t, tt.expected, input.Name)
		})
	}
}

/*
TestUserService_Create_Validation rejects malformed payloads with a
VALIDATION_ERROR before any storage call.
*/
func TestUserService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*user.User)
	}{
		{"empty_email", func(u *user.User) { u.Email = "" }},
		{"malformed_email", func(u *user.User) { u.Email = "mail.ru" }},
		{"empty_login", func(u *user.User) { u.Login = "" }},
		{"login_with_spaces", func(u *user.User) { u.Login = "dolore ullamco" }},
		{"future_birthday", func(u *user.User) { u.Birthday = date.FromTime(time.Now().AddDate(1, 0, 0)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService()

			input := validUser("dolore")
			tt.mutate(input)

			err := service.CreateUser(context.Background(), input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

/*
TestUserService_Create_DuplicateID verifies the Conflict on an explicit,
already-taken id.
*/
func TestUserService_Create_DuplicateID(t *testing.T) {
	service := newService()
	ctx := context.Background()

	first := validUser("first")
	first.ID = 7
	require.NoError(t, service.CreateUser(ctx, first))

	second := validUser("second")
	second.ID = 7
	err := service.CreateUser(ctx, second)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 409, ae.HTTPStatus)
}

/*
TestUserService_Update verifies a full overwrite, including the re-applied
name backfill.
*/
func TestUserService_Update(t *testing.T) {
	service := newService()
	ctx := context.Background()

	input := validUser("dolore")
	require.NoError(t, service.CreateUser(ctx, input))

	updated := validUser("doloreUpdate")
	updated.ID = input.ID
	updated.Name = ""
	require.NoError(t, service.UpdateUser(ctx, updated))

	stored, err := service.GetUser(ctx, input.ID)
	require.NoError(t, err)
	assert.Equal(t, "doloreUpdate", stored.Login)
	assert.Equal(t, "doloreUpdate", stored.Name)
}

/*
TestUserService_Update_Missing verifies NotFound for unknown and
never-assigned ids.
*/
func TestUserService_Update_Missing(t *testing.T) {
	tests := []struct {
		name string
		id   int64
	}{
		{"unknown_id", 9999},
		{"zero_id", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService()

			input := validUser("ghost")
			input.ID = tt.id

			err := service.UpdateUser(context.Background(), input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, 404, ae.HTTPStatus)
		})
	}
}

/*
TestUserService_Friendship verifies that friendship edges are directed:
adding A -> B does not create B -> A.
*/
func TestUserService_Friendship(t *testing.T) {
	service := newService()
	ctx := context.Background()

	alice := validUser("alice")
	bob := validUser("bob")
	require.NoError(t, service.CreateUser(ctx, alice))
	require.NoError(t, service.CreateUser(ctx, bob))

	require.NoError(t, service.AddFriend(ctx, alice.ID, bob.ID))

	aliceFriends, err := service.Friends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceFriends, 1)
	assert.Equal(t, bob.ID, aliceFriends[0].ID)

	// The reverse edge does not exist.
	bobFriends, err := service.Friends(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobFriends)

	// Re-adding the same edge is a no-op.
	require.NoError(t, service.AddFriend(ctx, alice.ID, bob.ID))
	aliceFriends, err = service.Friends(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceFriends, 1)

	// Removing the edge, then removing it again, both succeed.
	require.NoError(t, service.DeleteFriend(ctx, alice.ID, bob.ID))
	require.NoError(t, service.DeleteFriend(ctx, alice.ID, bob.ID))

	aliceFriends, err = service.Friends(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, aliceFriends)
}

/*
TestUserService_Friendship_MissingUser verifies that both endpoints must
exist before any edge is written.
*/
func TestUserService_Friendship_MissingUser(t *testing.T) {
	service := newService()
	ctx := context.Background()

	alice := validUser("alice")
	require.NoError(t, service.CreateUser(ctx, alice))

	err := service.AddFriend(ctx, alice.ID, 9999)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 404, ae.HTTPStatus)

	err = service.DeleteFriend(ctx, 9999, alice.ID)
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 404, ae.HTTPStatus)
}

/*
TestUserService_CommonFriends verifies the intersection semantics over
directed edges.
*/
func TestUserService_CommonFriends(t *testing.T) {
	service := newService()
	ctx := context.Background()

	alice := validUser("alice")
	bob := validUser("bob")
	carol := validUser("carol")
	dave := validUser("dave")
	for _, u := range []*user.User{alice, bob, carol, dave} {
		require.NoError(t, service.CreateUser(ctx, u))
	}

	// No shared friends yet.
	common, err := service.CommonFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, common)

	require.NoError(t, service.AddFriend(ctx, alice.ID, carol.ID))
	require.NoError(t, service.AddFriend(ctx, alice.ID, dave.ID))
	require.NoError(t, service.AddFriend(ctx, bob.ID, carol.ID))

	common, err = service.CommonFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, common, 1)
	assert.Equal(t, carol.ID, common[0].ID)

	// Carol befriending Alice does not make Carol common: Bob has no
	// outbound edge to Alice's new follower.
	require.NoError(t, service.AddFriend(ctx, carol.ID, alice.ID))
	common, err = service.CommonFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Len(t, common, 1)
}

/*
TestUserService_DeleteAll verifies the wipe keeps the id sequence moving
forward.
*/
func TestUserService_DeleteAll(t *testing.T) {
	service := newService()
	ctx := context.Background()

	first := validUser("first")
	require.NoError(t, service.CreateUser(ctx, first))
	require.NoError(t, service.DeleteAllUsers(ctx))

	users, err := service.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	// Ids are never reused after a wipe.
	second := validUser("second")
	require.NoError(t, service.CreateUser(ctx, second))
	assert.Equal(t, int64(2), second.ID)
}
