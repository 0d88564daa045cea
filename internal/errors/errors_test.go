package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainKindCoversEquipAndQuest(t *testing.T) {
	assert.True(t, IsDomainError(NewDomainError("x")))
	assert.True(t, IsDomainError(NewEquipError("x")))
	assert.True(t, IsDomainError(NewQuestError("x")))
	assert.False(t, IsDomainError(NewPermissionError("x")))
	assert.False(t, IsDomainError(stderrors.New("plain")))
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("apply: %w", NewPermissionError("Host role required"))
	assert.True(t, IsPermissionError(err))
	assert.Equal(t, "FORBIDDEN", CodeOf(err))

	wrapped := WrapError(NewQuestError("Quest instance not found"), "update status", ErrorTypeError)
	assert.True(t, IsQuestError(wrapped))
	assert.Equal(t, "update status: Quest instance not found", wrapped.Error())
}

func TestWrapErrorPlain(t *testing.T) {
	assert.Nil(t, WrapError(nil, "noop", ErrorTypeError))

	err := WrapError(stderrors.New("disk full"), "save store", ErrorTypeError)
	assert.Equal(t, "save store: disk full", err.Error())
	assert.Equal(t, "PROCESSING_ERROR", CodeOf(err))
	assert.Equal(t, "UNKNOWN_ERROR", CodeOf(stderrors.New("x")))
}
