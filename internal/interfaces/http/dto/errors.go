package dto

import (
	"net/http"

	"github.com/icepoint/backend/internal/domain/shared"
)

// Error codes carried on the wire. Domain error codes map one to one; the
// extra codes cover failures that never reach the domain layer.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:      http.StatusBadRequest,
	shared.CodeUnauthorized:    http.StatusUnauthorized,
	shared.CodeForbidden:       http.StatusForbidden,
	shared.CodeNotFound:        http.StatusNotFound,
	shared.CodeConflict:        http.StatusConflict,
	shared.CodeInvalidState:    http.StatusConflict,
	shared.CodeExternalService: http.StatusBadGateway,

	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes surface as 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
