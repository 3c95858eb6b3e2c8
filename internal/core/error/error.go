package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
)

// Kind classifies failures of a theorist loop run and its supporting infrastructure.
type Kind string

const (
	KindAdvisoryUnavailable Kind = "advisory_unavailable"
	KindMalformedDecision   Kind = "malformed_decision"
	KindUnknownAction       Kind = "unknown_action"
	KindDuplicateSimulation Kind = "duplicate_simulation"
	KindStepLimitExceeded   Kind = "step_limit_exceeded"
	KindEstimatorInput      Kind = "estimator_input"
	KindCancelled           Kind = "cancelled"
	KindInvalidRequest      Kind = "invalid_request"
	KindRedis               Kind = "redis"
	KindInternal            Kind = "internal"
)

// ErrAdvisorUnavailable marks advisory service failures (missing credential,
// unreachable endpoint, timeout). They end the run.
var ErrAdvisorUnavailable = errors.New("advisory service unavailable")

// AppError wraps an underlying error with an HTTP status, a kind and a safe message.
type AppError struct {
	Err     error
	Status  int
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Kind:    KindInternal,
		Message: message,
	}
}

// NewKind creates an AppError whose status is derived from kind.
func NewKind(kind Kind, err error, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  StatusFor(kind),
		Kind:    kind,
		Message: message,
	}
}

// Unavailable wraps err as an advisory service failure.
func Unavailable(err error, message string) *AppError {
	if err == nil {
		err = ErrAdvisorUnavailable
	} else if !errors.Is(err, ErrAdvisorUnavailable) {
		err = fmt.Errorf("%w: %w", ErrAdvisorUnavailable, err)
	}
	return NewKind(KindAdvisoryUnavailable, err, message)
}

// StatusFor maps a kind to the HTTP status reported by the API.
func StatusFor(kind Kind) int {
	switch kind {
	case KindInvalidRequest, KindEstimatorInput, KindMalformedDecision:
		return http.StatusBadRequest
	case KindAdvisoryUnavailable, KindRedis:
		return http.StatusBadGateway
	case KindUnknownAction, KindDuplicateSimulation:
		return http.StatusUnprocessableEntity
	case KindStepLimitExceeded:
		return http.StatusRequestTimeout
	case KindCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusOf returns the HTTP status of the first AppError in err's chain.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
