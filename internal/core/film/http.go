package film

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kinora/kinora/internal/platform/constants"
	requestutil "github.com/kinora/kinora/internal/platform/request"
	"github.com/kinora/kinora/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listFilms)
	router.Get("/popular", handler.listPopular)
	router.Get("/{id}", handler.getFilm)
	router.Post("/", handler.createFilm)
	router.Put("/", handler.updateFilm)
	router.Delete("/", handler.deleteAllFilms)

	router.Put("/{id}/like/{userId}", handler.addLike)
	router.Delete("/{id}/like/{userId}", handler.deleteLike)
}

func (handler *Handler) listFilms(writer http.ResponseWriter, request *http.Request) {
	films, err := handler.service.ListFilms(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, films)
}

func (handler *Handler) getFilm(writer http.ResponseWriter, request *http.Request) {
	filmID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	film, err := handler.service.GetFilm(request.Context(), filmID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, film)
}

func (handler *Handler) createFilm(writer http.ResponseWriter, request *http.Request) {
	var input Film
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateFilm(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) updateFilm(writer http.ResponseWriter, request *http.Request) {
	var input Film
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateFilm(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteAllFilms(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteAllFilms(request.Context()); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, nil)
}

// # Like Routes

func (handler *Handler) addLike(writer http.ResponseWriter, request *http.Request) {
	filmID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	userID, err := requestutil.ID(request, "userId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AddLike(request.Context(), filmID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, nil)
}

func (handler *Handler) deleteLike(writer http.ResponseWriter, request *http.Request) {
	filmID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	userID, err := requestutil.ID(request, "userId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteLike(request.Context(), filmID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, nil)
}

func (handler *Handler) listPopular(writer http.ResponseWriter, request *http.Request) {
	count, err := requestutil.QueryInt(request, "count", constants.DefaultPopularCount)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	films, err := handler.service.Popular(request.Context(), count)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, films)
}
