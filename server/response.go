package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/sessionkit/errors"
)

// RespondWithError writes err as an error body. AppErrors keep their status
// and code; anything else becomes a 500.
func RespondWithError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}

// RespondOK sends data as-is with a 200.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// RespondCreated sends data as-is with a 201.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}
