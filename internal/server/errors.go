package server

import (
	"fmt"
	"net/http"

	cerrors "github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/models"
)

// HTTPError is the JSON body of every failed request
type HTTPError struct {
	StatusCode int          `json:"status_code"`
	Message    string       `json:"message"`
	RequestID  string       `json:"request_id,omitempty"`
	Details    []ErrorEntry `json:"details,omitempty"`
}

// ErrorEntry describes one underlying failure
type ErrorEntry struct {
	Code        string                `json:"code"`
	Message     string                `json:"message"`
	Location    models.SourceLocation `json:"location"`
	Suggestions []string              `json:"suggestions,omitempty"`
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates an error with the given status code and message
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// ErrBadRequest creates a 400 Bad Request error
func ErrBadRequest(message string, cause error) *HTTPError {
	e := NewHTTPError(http.StatusBadRequest, message)
	e.Details = errorEntries(cause)
	return e
}

// ErrUnprocessableEntity creates a 422 error for inputs that parse but do
// not form a valid declaration set
func ErrUnprocessableEntity(message string, cause error) *HTTPError {
	e := NewHTTPError(http.StatusUnprocessableEntity, message)
	e.Details = errorEntries(cause)
	return e
}

func errorEntries(err error) []ErrorEntry {
	if err == nil {
		return nil
	}
	var entries []ErrorEntry
	for _, re := range errors.Flatten(err) {
		entries = append(entries, ErrorEntry{
			Code:        re.ErrorCode().String(),
			Message:     re.Summary(),
			Location:    re.Location(),
			Suggestions: re.Suggestions(),
		})
	}
	return entries
}

// errorHandler renders every handler error as an HTTPError body
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *HTTPError
	var echoErr *echo.HTTPError
	switch {
	case cerrors.As(err, &httpErr):
	case cerrors.As(err, &echoErr):
		httpErr = NewHTTPError(echoErr.Code, fmt.Sprint(echoErr.Message))
	default:
		s.logger.Error("request failed",
			zap.String(FieldRequestID, requestID(c)),
			zap.String(FieldErrorCode, errors.CodeOf(err).String()),
			zap.Error(err))
		httpErr = NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	httpErr.RequestID = requestID(c)

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpErr.StatusCode)
	} else {
		err = c.JSON(httpErr.StatusCode, httpErr)
	}
	if err != nil {
		s.logger.Warn("write error response", zap.Error(err))
	}
}
