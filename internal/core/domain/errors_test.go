package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrInvalidDate", ErrInvalidDate},
		{"ErrSyncInProgress", ErrSyncInProgress},
		{"ErrCalendarGone", ErrCalendarGone},
		{"ErrAuthInvalid", ErrAuthInvalid},
		{"ErrNotConfigured", ErrNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestRemoteError_Error(t *testing.T) {
	err := NewRemoteError(410, errors.New("sync token expired"))
	assert.Equal(t, "remote status 410: sync token expired", err.Error())

	bare := &RemoteError{StatusCode: 503}
	assert.Equal(t, "remote status 503", bare.Error())
}

func TestRemoteError_Unwrap(t *testing.T) {
	err := NewRemoteError(401, ErrAuthInvalid)
	assert.True(t, errors.Is(err, ErrAuthInvalid))
}

func TestRemoteStatus(t *testing.T) {
	wrapped := fmt.Errorf("list events: %w", NewRemoteError(403, nil))

	status, ok := RemoteStatus(wrapped)
	assert.True(t, ok)
	assert.Equal(t, 403, status)

	_, ok = RemoteStatus(errors.New("plain"))
	assert.False(t, ok)

	_, ok = RemoteStatus(nil)
	assert.False(t, ok)
}
