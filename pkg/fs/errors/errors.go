// Package errors provides the error codes shared by every filesystem
// implementation. This is a leaf package with no internal dependencies,
// designed to be imported by both backends and by callers that branch on
// failure kinds without causing circular imports.
//
// Import graph: errors <- fs <- fakefs / osfs
package errors

import "fmt"

// ErrorCode represents the kind of failure that occurred.
type ErrorCode int

const (
	// ErrNotFound indicates the requested path does not exist.
	ErrNotFound ErrorCode = iota + 1

	// ErrAlreadyExists indicates the path already exists.
	ErrAlreadyExists

	// ErrPermissionDenied indicates a permission bit blocked the operation.
	ErrPermissionDenied

	// ErrInvalidInput indicates a bad argument: a seek before byte zero, an
	// unrecognized open-option combination, or a directory given as the
	// source of a file copy.
	ErrInvalidInput

	// ErrUnsupported indicates the operation is not valid on this node type:
	// a directory where a file was expected (and vice versa), a non-empty
	// directory on non-recursive removal, or I/O against a handle opened
	// with the opposite access mode.
	ErrUnsupported

	// ErrInvalidData indicates bytes that could not be decoded, such as
	// non-UTF-8 content read as a string. This is a concern of the calling
	// layer, never of the registry itself.
	ErrInvalidData
)

// String returns a human-readable name for the error code.
func (e ErrorCode) String() string {
	switch e {
	case ErrNotFound:
		return "NotFound"
	case ErrAlreadyExists:
		return "AlreadyExists"
	case ErrPermissionDenied:
		return "PermissionDenied"
	case ErrInvalidInput:
		return "InvalidInput"
	case ErrUnsupported:
		return "Unsupported"
	case ErrInvalidData:
		return "InvalidData"
	default:
		return fmt.Sprintf("Unknown(%d)", int(e))
	}
}

// FSError represents a filesystem failure with an error code and the path
// that triggered it.
type FSError struct {
	Code    ErrorCode
	Message string
	Path    string
}

// Error implements the error interface.
func (e *FSError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path: %s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ============================================================================
// Factory Functions
// ============================================================================

// NewNotFound creates a NotFound error.
func NewNotFound(path string) *FSError {
	return &FSError{
		Code:    ErrNotFound,
		Message: "entity not found",
		Path:    path,
	}
}

// NewAlreadyExists creates an AlreadyExists error.
func NewAlreadyExists(path string) *FSError {
	return &FSError{
		Code:    ErrAlreadyExists,
		Message: "entity already exists",
		Path:    path,
	}
}

// NewPermissionDenied creates a PermissionDenied error.
func NewPermissionDenied(path string) *FSError {
	return &FSError{
		Code:    ErrPermissionDenied,
		Message: "permission denied",
		Path:    path,
	}
}

// NewInvalidInput creates an InvalidInput error.
func NewInvalidInput(message string) *FSError {
	return &FSError{
		Code:    ErrInvalidInput,
		Message: message,
	}
}

// NewNotDirectory creates an Unsupported error for a path that was expected
// to be a directory.
func NewNotDirectory(path string) *FSError {
	return &FSError{
		Code:    ErrUnsupported,
		Message: "not a directory",
		Path:    path,
	}
}

// NewNotFile creates an Unsupported error for a path that was expected to be
// a regular file.
func NewNotFile(path string) *FSError {
	return &FSError{
		Code:    ErrUnsupported,
		Message: "not a file",
		Path:    path,
	}
}

// NewNotEmpty creates an Unsupported error for a non-empty directory on
// non-recursive removal.
func NewNotEmpty(path string) *FSError {
	return &FSError{
		Code:    ErrUnsupported,
		Message: "directory not empty",
		Path:    path,
	}
}

// NewUnsupported creates a generic Unsupported error.
func NewUnsupported(message string) *FSError {
	return &FSError{
		Code:    ErrUnsupported,
		Message: message,
	}
}

// NewInvalidData creates an InvalidData error.
func NewInvalidData(message string) *FSError {
	return &FSError{
		Code:    ErrInvalidData,
		Message: message,
	}
}

// ============================================================================
// Error Type Checking Helpers
// ============================================================================

func codeOf(err error) (ErrorCode, bool) {
	if fsErr, ok := err.(*FSError); ok {
		return fsErr.Code, true
	}
	return 0, false
}

// IsNotFound returns true if the error is a NotFound error.
func IsNotFound(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrNotFound
}

// IsAlreadyExists returns true if the error is an AlreadyExists error.
func IsAlreadyExists(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrAlreadyExists
}

// IsPermissionDenied returns true if the error is a PermissionDenied error.
func IsPermissionDenied(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrPermissionDenied
}

// IsInvalidInput returns true if the error is an InvalidInput error.
func IsInvalidInput(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrInvalidInput
}

// IsUnsupported returns true if the error is an Unsupported error.
func IsUnsupported(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrUnsupported
}

// IsInvalidData returns true if the error is an InvalidData error.
func IsInvalidData(err error) bool {
	code, ok := codeOf(err)
	return ok && code == ErrInvalidData
}
