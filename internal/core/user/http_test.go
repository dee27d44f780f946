package user_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinora/kinora/internal/core/user"
)

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := user.NewService(user.NewMemoryRepository(), logger)
	handler := user.NewHandler(service)

	router := chi.NewRouter()
	router.Route("/users", handler.RegisterRoutes)
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestUserHandler_CreateAndGet verifies the success envelope and the id
round-trip through the HTTP surface.
*/
func TestUserHandler_CreateAndGet(t *testing.T) {
	router := newTestRouter()

	payload := `{"email":"mail@mail.ru","login":"dolore","name":"","birthday":"1946-08-20"}`
	response := doRequest(t, router, http.MethodPost, "/users", payload)
	require.Equal(t, http.StatusOK, response.Code)

	// Name falls back to login, inside the standard data envelope.
	assert.Contains(t, response.Body.String(), `"data"`)
	assert.Contains(t, response.Body.String(), `"name":"dolore"`)

	response = doRequest(t, router, http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), `"login":"dolore"`)
}

/*
TestUserHandler_ErrorStatuses verifies the error envelope and the status
mapping: 400 for bad payloads, 404 for missing resources, 409 for
duplicate ids.
*/
func TestUserHandler_ErrorStatuses(t *testing.T) {
	router := newTestRouter()

	// Malformed JSON.
	response := doRequest(t, router, http.MethodPost, "/users", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assert.Contains(t, response.Body.String(), `"code"`)

	// Validation failure carries field details.
	response = doRequest(t, router, http.MethodPost, "/users", `{"email":"mail.ru","login":"dolore"}`)
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assert.Contains(t, response.Body.String(), "VALIDATION_ERROR")

	// Unknown resource.
	response = doRequest(t, router, http.MethodGet, "/users/42", "")
	assert.Equal(t, http.StatusNotFound, response.Code)

	// Non-numeric id parameter.
	response = doRequest(t, router, http.MethodGet, "/users/abc", "")
	assert.Equal(t, http.StatusBadRequest, response.Code)

	// Duplicate explicit id.
	payload := `{"id":5,"email":"mail@mail.ru","login":"dolore","birthday":"1946-08-20"}`
	response = doRequest(t, router, http.MethodPost, "/users", payload)
	require.Equal(t, http.StatusOK, response.Code)

	response = doRequest(t, router, http.MethodPost, "/users", payload)
	assert.Equal(t, http.StatusConflict, response.Code)

	// Updating a user that was never created.
	payload = `{"id":999,"email":"mail@mail.ru","login":"dolore","birthday":"1946-08-20"}`
	response = doRequest(t, router, http.MethodPut, "/users", payload)
	assert.Equal(t, http.StatusNotFound, response.Code)
}

/*
TestUserHandler_FriendRoutes verifies the friendship endpoints end to end.
*/
func TestUserHandler_FriendRoutes(t *testing.T) {
	router := newTestRouter()

	for _, login := range []string{"alice", "bob", "carol"} {
		payload := `{"email":"` + login + `@mail.ru","login":"` + login + `","birthday":"1990-01-01"}`
		response := doRequest(t, router, http.MethodPost, "/users", payload)
		require.Equal(t, http.StatusOK, response.Code)
	}

	response := doRequest(t, router, http.MethodPut, "/users/1/friends/3", "")
	require.Equal(t, http.StatusOK, response.Code)
	response = doRequest(t, router, http.MethodPut, "/users/2/friends/3", "")
	require.Equal(t, http.StatusOK, response.Code)

	response = doRequest(t, router, http.MethodGet, "/users/1/friends", "")
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), `"login":"carol"`)

	response = doRequest(t, router, http.MethodGet, "/users/1/friends/common/2", "")
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), `"login":"carol"`)

	// Befriending a missing user is a 404.
	response = doRequest(t, router, http.MethodPut, "/users/1/friends/99", "")
	assert.Equal(t, http.StatusNotFound, response.Code)

	response = doRequest(t, router, http.MethodDelete, "/users/1/friends/3", "")
	require.Equal(t, http.StatusOK, response.Code)

	response = doRequest(t, router, http.MethodGet, "/users/1/friends", "")
	require.Equal(t, http.StatusOK, response.Code)
	assert.NotContains(t, response.Body.String(), `"login":"carol"`)
}
