package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rshade/fleetcost/internal/catalog"
	"github.com/rshade/fleetcost/internal/service"
	"github.com/rshade/fleetcost/internal/store"
)

// Error codes carried by ErrorDetail.Code.
const (
	CodeInvalidRequest             = "INVALID_REQUEST"
	CodeUnrecognizedClassification = "UNRECOGNIZED_CLASSIFICATION"
	CodeNotFound                   = "NOT_FOUND"
	CodeConflict                   = "CONFLICT"
	CodeRateLimited                = "RATE_LIMITED"
	CodeRequestCancelled           = "REQUEST_CANCELLED"
	CodeInternalError              = "INTERNAL_ERROR"
)

// statusClientClosedRequest is the non-standard status used when the client
// went away before the response.
const statusClientClosedRequest = 499

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// writeError aborts the request with the JSON error envelope.
func writeError(c *gin.Context, code, message string, status int) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Status:  status,
		},
	})
}

// writeServiceError maps domain errors onto the envelope. Unexpected errors
// are logged and reported without detail.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnrecognizedClassification):
		writeError(c, CodeUnrecognizedClassification, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalid):
		writeError(c, CodeInvalidRequest, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		writeError(c, CodeNotFound, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		writeError(c, CodeConflict, err.Error(), http.StatusConflict)
	case errors.Is(err, context.Canceled):
		writeError(c, CodeRequestCancelled, "request cancelled", statusClientClosedRequest)
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
		writeError(c, CodeInternalError, "internal server error", http.StatusInternalServerError)
	}
}

func writeBadRequest(c *gin.Context, message string) {
	writeError(c, CodeInvalidRequest, message, http.StatusBadRequest)
}
