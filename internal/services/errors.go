package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Error kinds reported by Kind.
const (
	KindValidation    = "validation"
	KindConfiguration = "configuration"
	KindNotFound      = "not_found"
	KindTimeout       = "timeout"
	KindTransient     = "transient"
)

// kinded is implemented by errors that classify themselves, such as provider
// status errors and classification extraction errors.
type kinded interface {
	ErrorKind() string
}

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind classifies an error for reporting and history. Sentinel markers win over
// self-classifying errors further down the chain; unclassified errors are
// treated as transient.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrTransient):
		return KindTransient
	}
	var k kinded
	if errors.As(err, &k) {
		if kind := strings.TrimSpace(k.ErrorKind()); kind != "" {
			return kind
		}
	}
	return KindTransient
}

// Retryable reports whether re-running the operation might succeed.
func Retryable(err error) bool {
	switch Kind(err) {
	case KindTransient, KindTimeout:
		return true
	default:
		return false
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
