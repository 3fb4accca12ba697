package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"safepay/internal/domain"

	"github.com/gin-gonic/gin"
)

// statusOf maps a service error to its HTTP status. Unknown errors are 500.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInvalidRecipient),
		errors.Is(err, domain.ErrNoWallet),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrWalletExists),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": msg}. Internal failures are logged
// and their detail withheld from the client.
func respondError(c *gin.Context, log *slog.Logger, op string, err error) {
	status := statusOf(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		log.Error(op+" failed", "error", err, "path", c.Request.URL.Path)
		msg = "internal server error"
	case http.StatusServiceUnavailable:
		log.Warn(op+" failed", "error", err)
		msg = domain.ErrUpstreamUnavailable.Error()
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
