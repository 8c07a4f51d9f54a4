package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/domain"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Status: status, Message: message, Data: data})
}

// respondError translates the domain taxonomy into the envelope. Anything
// outside the taxonomy is an unexpected failure and becomes a bare 500.
func respondError(c *gin.Context, err error) {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		respond(c, domainErr.Status, domainErr.Message, nil)
		return
	}
	respond(c, http.StatusInternalServerError, "Internal server error", nil)
}
