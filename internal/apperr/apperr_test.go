package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("product not found")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("wrap: %w", Conflict("dup"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("create: %w", Validation("Validation failed", nil))
	assert.True(t, errors.Is(err, Validation("", nil)))
	assert.False(t, errors.Is(err, NotFound("")))
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to save", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save: connection refused", err.Error())
}
