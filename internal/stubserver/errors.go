// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stubserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pdiddy/file-converter/pkg/types"
)

// apiError is a failure reported in the contract's JSON envelope.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func badRequest(msg string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: msg}
}

func notFound(msg string) *apiError {
	return &apiError{Status: http.StatusNotFound, Message: msg}
}

func unprocessable(msg string) *apiError {
	return &apiError{Status: http.StatusUnprocessableEntity, Message: msg}
}

func internal(msg string, cause error) *apiError {
	if cause != nil {
		msg = msg + ": " + cause.Error()
	}
	return &apiError{Status: http.StatusInternalServerError, Message: msg}
}

// errorHandler renders every error as {"success": false, "error": msg}.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		apiErr  *apiError
		httpErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &apiError{Status: httpErr.Code, Message: fmt.Sprintf("%v", httpErr.Message)}
	default:
		apiErr = internal("unexpected error", err)
	}

	c.JSON(apiErr.Status, types.ConversionResult{Success: false, Error: apiErr.Message})
}
