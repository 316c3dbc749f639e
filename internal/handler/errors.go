package handler

import (
	"errors"
	"net/http"

	"farmops/internal/apperror"
	"farmops/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps domain errors onto HTTP statuses. Stock shortfalls carry
// their per-line detail in the data payload so clients can show every
// failing line at once.
func writeError(c *gin.Context, err error) {
	var validationErr *apperror.ValidationError
	var notFoundErr *apperror.NotFoundError
	var stateErr *apperror.StateError
	var conflictErr *apperror.ConflictError
	var stockErr *apperror.InsufficientStockError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, validationErr.Error()))
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, notFoundErr.Error()))
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, stateErr.Error()))
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, conflictErr.Error()))
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, response.Response{
			Status:     "error",
			StatusCode: http.StatusConflict,
			Error:      stockErr.Error(),
			Data:       gin.H{"shortfalls": stockErr.Shortfalls},
		})
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) string {
	userID, _ := c.Get("userID")
	userIDStr, _ := userID.(string)
	return userIDStr
}
