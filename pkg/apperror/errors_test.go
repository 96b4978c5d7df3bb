package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUpstreamError(t *testing.T) {
	tests := []struct {
		status   int
		message  string
		wantCode int
		wantMsg  string
	}{
		{http.StatusUnprocessableEntity, "insufficient stock", http.StatusUnprocessableEntity, "insufficient stock"},
		{http.StatusNotFound, "invoice not found", http.StatusNotFound, "invoice not found"},
		{http.StatusInternalServerError, "boom", http.StatusBadGateway, "boom"},
		{http.StatusServiceUnavailable, "", http.StatusBadGateway, "Bad Gateway"},
		{http.StatusFound, "", http.StatusBadGateway, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := NewUpstreamError(tt.status, tt.message)
			assert.Equal(t, tt.wantCode, err.Code)
			assert.Equal(t, tt.wantMsg, err.Message)
			assert.True(t, err.Upstream)
		})
	}
}

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("loading session: %w", NewNotFoundError("Checkout"))
	assert.True(t, IsAppError(wrapped))
	assert.Equal(t, http.StatusNotFound, GetAppError(wrapped).Code)

	plain := errors.New("disk on fire")
	assert.False(t, IsAppError(plain))
	got := GetAppError(plain)
	assert.Equal(t, http.StatusInternalServerError, got.Code)
	assert.Equal(t, "disk on fire", got.Message)
}
