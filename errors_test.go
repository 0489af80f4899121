package fireusers_test

import (
	"fmt"
	"testing"

	fireusers "github.com/francipvb/fastapi-users-firebase"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestIsUserNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Nil error", nil, false},
		{"Package error", fireusers.ErrUserNotFound, true},
		{"Wrapped package error", fmt.Errorf("lookup: %w", fireusers.ErrUserNotFound), true},
		{"Any not-found category", errors.New("gone", errors.CategoryNotFound), true},
		{"Unrelated error", assert.AnError, false},
		{"Other taxonomy error", fireusers.ErrTokenInvalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fireusers.IsUserNotFoundError(tt.err))
		})
	}
}

func TestIsInvalidTokenError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Nil error", nil, false},
		{"Package error", fireusers.ErrTokenInvalid, true},
		{"Wrapped package error", fmt.Errorf("verify: %w", fireusers.ErrTokenInvalid), true},
		{"Expired is not invalid", fireusers.ErrTokenExpiredOrRevoked, false},
		{"Unrelated error", assert.AnError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fireusers.IsInvalidTokenError(tt.err))
		})
	}
}

func TestIsTokenExpiredOrRevokedError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Nil error", nil, false},
		{"Package error", fireusers.ErrTokenExpiredOrRevoked, true},
		{"Clone with cause", cloneWithCause(fireusers.ErrTokenExpiredOrRevoked), true},
		{"Invalid is not expired", fireusers.ErrTokenInvalid, false},
		{"Unrelated error", assert.AnError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, fireusers.IsTokenExpiredOrRevokedError(tt.err))
		})
	}
}

func TestIsClientSDKRequiredError(t *testing.T) {
	assert.False(t, fireusers.IsClientSDKRequiredError(nil))
	assert.True(t, fireusers.IsClientSDKRequiredError(fireusers.ErrClientSDKRequired))
	assert.False(t, fireusers.IsClientSDKRequiredError(fireusers.ErrTokensAreClientSide))
	assert.False(t, fireusers.IsClientSDKRequiredError(assert.AnError))
}

func TestErrorCodesMapToHTTPOutcomes(t *testing.T) {
	tests := []struct {
		name string
		err  *errors.Error
		code int
	}{
		{"Not found", fireusers.ErrUserNotFound, errors.CodeNotFound},
		{"Duplicate email", fireusers.ErrUserAlreadyExists, errors.CodeConflict},
		{"Invalid token", fireusers.ErrTokenInvalid, errors.CodeUnauthorized},
		{"Expired token", fireusers.ErrTokenExpiredOrRevoked, errors.CodeForbidden},
		{"Client SDK required", fireusers.ErrClientSDKRequired, errors.CodeForbidden},
		{"Missing credentials", fireusers.ErrCredentialsRequired, errors.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func cloneWithCause(err *errors.Error) error {
	clone := err.Clone()
	clone.Source = assert.AnError
	return clone
}
