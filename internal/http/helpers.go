package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/dataadapter/internal/apperr"
	"github.com/mrlokans/dataadapter/internal/envelope"
)

// statusFor maps an envelope code to the HTTP status it is served with.
func statusFor(code int, success bool) int {
	if code >= 100 && code <= 599 {
		return code
	}
	if success {
		return http.StatusOK
	}
	return http.StatusInternalServerError
}

// respond writes an envelope with the HTTP status mirroring its code.
func respond[T any](c *gin.Context, resp *envelope.Response[T]) {
	c.JSON(statusFor(resp.Code, resp.Success), resp)
}

// respondError writes a failed envelope built from err.
func respondError(c *gin.Context, err error) {
	respond(c, envelope.Fail[any](err))
}

// respondBadRequest writes a 400 envelope.
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, invalid(message))
}

func abortBadRequest(c *gin.Context, message string) {
	resp := envelope.Fail[any](invalid(message))
	c.AbortWithStatusJSON(statusFor(resp.Code, false), resp)
}

func invalid(message string) error {
	return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, message)
}
