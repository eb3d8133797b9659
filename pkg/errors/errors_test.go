package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrConfigLoad, "failed to load configuration")
	assert.Equal(t, "[CONFIG_LOAD] failed to load configuration", err.Error())

	wrapped := Wrap(fmt.Errorf("permission denied"), ErrSyncCopy, "copying note")
	assert.Equal(t, "[SYNC_COPY] copying note: permission denied", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternal, "should be nil"))
	assert.Nil(t, Wrapf(nil, ErrInternal, "should be %s", "nil"))
}

func TestErrorIs(t *testing.T) {
	err := Wrapf(fmt.Errorf("boom"), ErrGitCommand, "push failed")

	assert.True(t, stderrors.Is(err, New(ErrGitCommand, "")))
	assert.False(t, stderrors.Is(err, New(ErrGitMergeConflict, "")))
}

func TestUnwrap(t *testing.T) {
	inner := fmt.Errorf("inner")
	err := Wrap(inner, ErrVaultRead, "reading note")
	assert.Equal(t, inner, stderrors.Unwrap(err))
}

func TestDetails(t *testing.T) {
	err := New(ErrGitCommand, "commit failed").
		WithDetail("action", "commit").
		WithDetail("dir", "/repo")

	details := GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "commit", details["action"])
	assert.Equal(t, "/repo", details["dir"])
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrCriteriaUnknownKind, GetErrorCode(New(ErrCriteriaUnknownKind, "x")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))
	assert.True(t, IsErrorCode(New(ErrSyncScan, "x"), ErrSyncScan))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrSyncScan))
}
