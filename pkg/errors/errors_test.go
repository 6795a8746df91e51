package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedError(t *testing.T) {
	err := Clone(ErrAnnouncementPublished, "")
	got := FromError(err)
	require.NotNil(t, got)
	assert.Equal(t, "ANNOUNCEMENT_PUBLISHED", got.Code)
	assert.Equal(t, http.StatusBadRequest, got.Status)
}

func TestFromErrorWrapsPlainError(t *testing.T) {
	got := FromError(errors.New("db down"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.EqualError(t, got, "internal server error: db down")
}

func TestClonedErrorMatchesTemplate(t *testing.T) {
	err := Clone(ErrUpdateDatabase, "failed to close announcement")
	assert.True(t, errors.Is(err, ErrUpdateDatabase))
	assert.False(t, errors.Is(err, ErrAnnouncementPublished))
	assert.Equal(t, "database update failed", ErrUpdateDatabase.Message)
}

func TestFromErrorNil(t *testing.T) {
	assert.Nil(t, FromError(nil))
}
