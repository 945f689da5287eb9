package api

import (
	"alcyxob/fitness-records/internal/service"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondWithServiceError maps service error categories to HTTP statuses.
// Unexpected errors are logged and hidden behind fallbackMessage.
func respondWithServiceError(c *gin.Context, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("ERROR: [%s] %s %s: %v", requestIDFromContext(c), c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusInternalServerError, fallbackMessage)
	}
}
