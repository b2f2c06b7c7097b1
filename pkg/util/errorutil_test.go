package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	err := NewInvalidTransition("approved", "completed")
	mapped := ToDomainError(err)
	require.NotNil(t, mapped)
	assert.Equal(t, CodeInvalidTransition, mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	require.NotNil(t, mapped)
	assert.Equal(t, CodeInternal, mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestIsCodeUnwraps(t *testing.T) {
	err := fmt.Errorf("assign unit: %w", NewResourceUnavailable("unit busy", nil))
	assert.True(t, IsCode(err, CodeResourceUnavailable))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(nil, CodeNotFound))
}
