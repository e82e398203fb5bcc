package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/prode/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// statusFor maps service errors to an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrMonthNotFound):
		return http.StatusNotFound, "month_not_found"
	case errors.Is(err, service.ErrLoadMatchdays):
		return http.StatusBadGateway, "data_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
