package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", ErrNotFound)
	got := FromError(wrapped)
	assert.Equal(t, ErrNotFound.Code, got.Code)
	assert.Equal(t, http.StatusNotFound, got.Status)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, "internal server error: boom", got.Error())
	assert.Nil(t, FromError(nil))
}

func TestCloneOverridesMessageOnly(t *testing.T) {
	clone := Clone(ErrDuplicateAssessment, "Only one Mid exam is allowed.")
	assert.Equal(t, ErrDuplicateAssessment.Code, clone.Code)
	assert.Equal(t, "Only one Mid exam is allowed.", clone.Message)
	assert.Equal(t, "assessment category already present", ErrDuplicateAssessment.Message)
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("db down")
	err := Wrap(cause, ErrInternal.Code, ErrInternal.Status, "failed to load marks")
	assert.ErrorIs(t, err, cause)
}
