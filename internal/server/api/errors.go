// Package api provides the HTTP API handlers of the gesture relay.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError is the JSON body of every error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newError(status int, code, message string) *echo.HTTPError {
	return echo.NewHTTPError(status, &APIError{Code: code, Message: message})
}

func BadRequest(code, message string) *echo.HTTPError {
	return newError(http.StatusBadRequest, code, message)
}

func NotFound(code, message string) *echo.HTTPError {
	return newError(http.StatusNotFound, code, message)
}

func InternalError(code, message string) *echo.HTTPError {
	return newError(http.StatusInternalServerError, code, message)
}
