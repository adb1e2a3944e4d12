package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrInternalCode     = "INTERNAL_ERROR"
	ErrBadRequestCode   = "BAD_REQUEST"
	ErrUnauthorizedCode = "UNAUTHORIZED"
	ErrForbiddenCode    = "FORBIDDEN"
	ErrNotFoundCode     = "NOT_FOUND"
)

// Error is the JSON error body every non-stream endpoint returns.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrBadRequestCode
	case http.StatusUnauthorized:
		return ErrUnauthorizedCode
	case http.StatusForbidden:
		return ErrForbiddenCode
	case http.StatusNotFound:
		return ErrNotFoundCode
	default:
		return ErrInternalCode
	}
}

// RespondWithError writes the error body and aborts the request.
func RespondWithError(c *gin.Context, status int, message string, err error) {
	body := &Error{Code: codeForStatus(status), Message: message, Err: err}
	if err != nil {
		body.Details = err.Error()
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}
