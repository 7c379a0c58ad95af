package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dfelipe-rojas/guias-tracker/internal/common"
)

// APIError is the structured error body every endpoint returns on failure.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %q not found", resource, id),
	}
}

func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// HTTPErrorHandler maps APIError, domain sentinels and echo errors onto a
// consistent JSON body.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		// already shaped
	case errors.Is(err, common.ErrNotFound):
		apiErr = NewNotFoundError("resource", c.Param("id"))
	case errors.Is(err, common.ErrInvalidInput):
		apiErr = NewBadRequestError(err.Error(), nil)
	default:
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			apiErr = &APIError{
				Status:  httpErr.Code,
				Code:    http.StatusText(httpErr.Code),
				Message: fmt.Sprintf("%v", httpErr.Message),
			}
		} else {
			apiErr = NewInternalError("unexpected error", err)
		}
	}

	_ = c.JSON(apiErr.Status, apiErr)
}
