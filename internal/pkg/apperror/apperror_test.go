package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_UnwrapsToKind(t *testing.T) {
	errDuplicate := New(ErrConflict, "DUPLICATE", "duplicate entry")
	wrapped := fmt.Errorf("failed to save: %w", errDuplicate)

	assert.True(t, errors.Is(wrapped, errDuplicate))
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "DUPLICATE", CodeOf(wrapped))
	assert.Equal(t, ErrConflict, KindOf(wrapped))
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, "", CodeOf(errors.New("boom")))
	assert.Nil(t, KindOf(errors.New("boom")))
}
