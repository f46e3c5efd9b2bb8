package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/tobyvann/lectern/internal/models"
)

// statusForError maps typed core errors to HTTP status codes so every
// handler fails the same way.
func statusForError(err error) int {
	var (
		emptyErr   *models.EmptyContentError
		tooLarge   *models.ContentTooLargeError
		notFound   *models.SessionNotFoundError
		embedErr   *models.EmbeddingError
		genErr     *models.GenerationError
		storageErr *models.StorageError
	)

	switch {
	case errors.As(err, &emptyErr):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &embedErr), errors.As(err, &genErr):
		return http.StatusBadGateway
	case errors.As(err, &storageErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes the uniform failure response for a core error
func writeServiceError(w http.ResponseWriter, err error) {
	WriteError(w, statusForError(err), err.Error())
}
