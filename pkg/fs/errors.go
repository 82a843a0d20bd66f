package fs

import "github.com/miragefs/miragefs/pkg/fs/errors"

// ============================================================================
// Re-exported types from the errors package
// ============================================================================
//
// Callers that only branch on failure kinds can stay on this package instead
// of importing the leaf errors package directly.

// FSError is re-exported from the errors package.
type FSError = errors.FSError

// ErrorCode is re-exported from the errors package.
type ErrorCode = errors.ErrorCode

// Re-exported error codes.
const (
	ErrNotFound         = errors.ErrNotFound
	ErrAlreadyExists    = errors.ErrAlreadyExists
	ErrPermissionDenied = errors.ErrPermissionDenied
	ErrInvalidInput     = errors.ErrInvalidInput
	ErrUnsupported      = errors.ErrUnsupported
	ErrInvalidData      = errors.ErrInvalidData
)

// Re-exported error checking helpers.
var (
	IsNotFound         = errors.IsNotFound
	IsAlreadyExists    = errors.IsAlreadyExists
	IsPermissionDenied = errors.IsPermissionDenied
	IsInvalidInput     = errors.IsInvalidInput
	IsUnsupported      = errors.IsUnsupported
	IsInvalidData      = errors.IsInvalidData
)
