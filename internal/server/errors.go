package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/hudumahub/huduma/internal/payment/domain"
	subscriptiondomain "github.com/hudumahub/huduma/internal/subscription/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}


func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{Type: "unauthorized", Message: "authentication required"}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{Type: "too_many_requests", Message: "too many payment attempts, slow down"}
	case errors.Is(err, paymentdomain.ErrSessionNotFound),
		errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, paymentdomain.ErrInvalidPhoneNumber),
		errors.Is(err, paymentdomain.ErrInvalidOperator),
		errors.Is(err, paymentdomain.ErrInvalidPurpose),
		errors.Is(err, paymentdomain.ErrInvalidMethod),
		errors.Is(err, paymentdomain.ErrInvalidClient),
		errors.Is(err, paymentdomain.ErrInvalidProvider):
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: err.Error()}
	case errors.Is(err, paymentdomain.ErrInitiationFailed):
		return http.StatusBadGateway, errorPayload{Type: "processor_error", Message: "the payment could not be started, try again"}
	case errors.Is(err, paymentdomain.ErrPollCancelled):
		return http.StatusAccepted, errorPayload{Type: "settlement_pending", Message: "settlement is still in progress"}
	}
	return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
}
