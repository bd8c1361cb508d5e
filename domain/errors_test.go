package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDomainError(t *testing.T) {
	assert.True(t, IsDomainError(ErrDuplicateUsername, ErrCodeConflict))
	assert.False(t, IsDomainError(ErrDuplicateUsername, ErrCodeNotFound))
	assert.False(t, IsDomainError(errors.New("plain"), ErrCodeInternal))
}

func TestWrapError(t *testing.T) {
	cause := errors.New("broken pipe")
	err := WrapError(ErrCodeInternal, "task was not added", cause)

	assert.True(t, IsDomainError(err, ErrCodeInternal))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "task was not added: broken pipe", err.Error())
}

func TestIsDomainError_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", ErrInvalidCredentials)
	assert.True(t, IsDomainError(err, ErrCodeUnauthorized))
}
