package pesapal

import (
	"errors"
	"fmt"
)

var (
	ErrAuth   = errors.New("gateway authentication failed")
	ErrOrder  = errors.New("gateway order submission failed")
	ErrStatus = errors.New("gateway status query failed")
)

// NetworkError is a transport level failure talking to the gateway.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is an error reported by the gateway itself, either as a non-2xx
// response or as an error object inside a 200 response.
type APIError struct {
	Op         string
	HTTPStatus int
	Type       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if msg == "" {
		msg = "unexpected response"
	}
	return fmt.Sprintf("%s: gateway error (http %d): %s", e.Op, e.HTTPStatus, msg)
}

// Retryable reports whether repeating the call may succeed.
func (e *APIError) Retryable() bool {
	return e.HTTPStatus == 0 || e.HTTPStatus >= 500 || e.HTTPStatus == 429
}

type gatewayError struct {
	ErrorType string `json:"error_type"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

func (g *gatewayError) empty() bool {
	return g == nil || (g.Code == "" && g.Message == "")
}

func (g *gatewayError) apiError(op string, httpStatus int) *APIError {
	if g == nil {
		return &APIError{Op: op, HTTPStatus: httpStatus}
	}
	return &APIError{
		Op:         op,
		HTTPStatus: httpStatus,
		Type:       g.ErrorType,
		Code:       g.Code,
		Message:    g.Message,
	}
}
