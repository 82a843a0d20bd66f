package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "NotFound: entity not found (path: /a/b)", NewNotFound("/a/b").Error())
	assert.Equal(t, "InvalidInput: bad seek", NewInvalidInput("bad seek").Error())
	assert.Equal(t, "Unsupported: not a directory (path: /f)", NewNotDirectory("/f").Error())
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "NotFound", ErrNotFound.String())
	assert.Equal(t, "InvalidData", ErrInvalidData.String())
	assert.Equal(t, "Unknown(99)", ErrorCode(99).String())
}

func TestCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
	}{
		{"not found", NewNotFound("/p"), IsNotFound},
		{"already exists", NewAlreadyExists("/p"), IsAlreadyExists},
		{"permission denied", NewPermissionDenied("/p"), IsPermissionDenied},
		{"invalid input", NewInvalidInput("m"), IsInvalidInput},
		{"not directory", NewNotDirectory("/p"), IsUnsupported},
		{"not file", NewNotFile("/p"), IsUnsupported},
		{"not empty", NewNotEmpty("/p"), IsUnsupported},
		{"invalid data", NewInvalidData("m"), IsInvalidData},
	}

	checkers := []func(error) bool{
		IsNotFound, IsAlreadyExists, IsPermissionDenied,
		IsInvalidInput, IsUnsupported, IsInvalidData,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := 0
			for _, check := range checkers {
				if check(tt.err) {
					matches++
				}
			}
			assert.True(t, tt.checker(tt.err))
			assert.Equal(t, 1, matches, "exactly one checker should match")
		})
	}
}

func TestCheckersRejectForeignErrors(t *testing.T) {
	err := errors.New("plain")
	assert.False(t, IsNotFound(err))
	assert.False(t, IsUnsupported(err))
	assert.False(t, IsNotFound(nil))
}
