package core

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the session token is missing, invalid or expired.
	ErrUnauthorized = errors.New("session expired")
	// ErrForbidden means the operator is authenticated but not an admin.
	ErrForbidden = errors.New("admin privileges required")
)

// ValidationError is raised before a request is sent; nothing reaches the server.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RequestError is a non-success response other than 401/403.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "Request failed"
}

// NetworkError wraps a transport failure (connection refused, reset, DNS...).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type ErrorKind string

const (
	KindNone         ErrorKind = ""
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindValidation   ErrorKind = "validation"
	KindRequest      ErrorKind = "request"
	KindNetwork      ErrorKind = "network"
	KindUnknown      ErrorKind = "unknown"
)

// Kind classifies err into the console's error taxonomy.
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var vErr *ValidationError
	var rErr *RequestError
	var nErr *NetworkError

	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.As(err, &vErr):
		return KindValidation
	case errors.As(err, &rErr):
		return KindRequest
	case errors.As(err, &nErr):
		return KindNetwork
	default:
		return KindUnknown
	}
}
