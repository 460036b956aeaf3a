package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventfinder/eventfinder/internal/helpers"
	"github.com/eventfinder/eventfinder/internal/services"
)

// handleServiceError maps the service error taxonomy onto HTTP statuses.
// Unexpected errors get a generic 500; the detail stays server-side.
func handleServiceError(c *gin.Context, err error, resource, fallback string) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		helpers.RespondWithError(c, http.StatusUnprocessableEntity, validationErr.Message)
	case errors.Is(err, services.ErrValidation):
		helpers.RespondWithError(c, http.StatusUnprocessableEntity, "Validation failed")
	case errors.Is(err, services.ErrNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, resource+" not found")
	case errors.Is(err, services.ErrConflict):
		helpers.RespondWithError(c, http.StatusConflict, "Event is at capacity")
	case errors.Is(err, services.ErrForbidden):
		helpers.RespondWithError(c, http.StatusForbidden, "Not authorized")
	default:
		log.Printf("%s: %v", fallback, err)
		helpers.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
