package http_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ei-sanu/someshprofile/internal/lifecycle"
	"github.com/ei-sanu/someshprofile/internal/models"
	"github.com/ei-sanu/someshprofile/internal/payu"
)

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

// respondBindError answers a request whose body or query failed to bind.
func (s *HTTPServer) respondBindError(c *gin.Context, err error) {
	s.logger.Debug("Invalid request", "path", c.FullPath(), "error", err)
	respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
}

// respondServiceError maps service errors onto HTTP status codes.
func (s *HTTPServer) respondServiceError(c *gin.Context, err error) {
	var (
		validation *lifecycle.ValidationError
		illegal    *lifecycle.IllegalTransitionError
	)
	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &illegal):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrConcurrentModification):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotFound):
		respondError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrForbidden):
		respondError(c, http.StatusForbidden, "You do not have access to this resource")
	case errors.Is(err, payu.ErrMalformedResponse):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
