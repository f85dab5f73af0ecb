package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound signals a missing bundle artifact.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrDimensionMismatch signals inconsistent vector dimensionality.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrNotReady signals a query issued before the bundle was loaded.
	ErrNotReady = errors.New("resources not loaded")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// ResourceNotFoundError wraps ErrResourceNotFound with the missing artifact name
// so callers can emit an actionable message ("run the build step first").
type ResourceNotFoundError struct {
	Artifact string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrResourceNotFound.Error(), e.Artifact)
}

func (e *ResourceNotFoundError) Unwrap() error { return ErrResourceNotFound }

// NewResourceNotFound creates a resource-not-found error for one artifact.
func NewResourceNotFound(artifact string) error {
	return &ResourceNotFoundError{Artifact: artifact}
}
