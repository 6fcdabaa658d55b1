// ABOUTME: Typed errors for partner calls and their HTTP status mapping.
// ABOUTME: Config, validation and upstream failures map to 500, 400 and passthrough.
package rapidoc

import (
	"errors"
	"fmt"
	"net/http"
)

// ConfigError reports a missing credential or partner URL.
type ConfigError struct {
	Setting string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rapidoc: %s is not configured", e.Setting)
}

// ValidationError reports a request rejected before any partner call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UpstreamError is a non-success reply from the partner.
type UpstreamError struct {
	Op         string
	Status     int
	StatusText string
	Body       string
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("%s: %d %s", e.Op, e.Status, e.StatusText)
	if e.Body != "" {
		msg += ". Details: " + e.Body
	}
	return msg
}

// HTTPStatus returns the partner status when it is a valid HTTP error
// code. A 2xx the operation does not accept becomes 502.
func (e *UpstreamError) HTTPStatus() int {
	if e.Status >= 200 && e.Status <= 299 {
		return http.StatusBadGateway
	}
	if e.Status >= 100 && e.Status <= 599 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// HTTPStatus maps an error from this package to the status a proxy should
// answer with.
func HTTPStatus(err error) int {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	var uerr *UpstreamError
	if errors.As(err, &uerr) {
		return uerr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
