package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-checkout/internal/domain/checkout"
	"github.com/sangkips/salon-checkout/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, write func(c *gin.Context)) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("request_id", "req-7")
	write(c)
	c.Writer.WriteHeaderNow()

	var body APIResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	}
	return w, body
}

func TestErrorRendersCheckoutViolations(t *testing.T) {
	verrs := checkout.ValidationErrors{
		{Kind: checkout.ErrKindMissingClient, Field: "client_id", Message: "select a client before checking out"},
		{Kind: checkout.ErrKindOutstanding, Field: "payments", Message: "an outstanding amount remains"},
	}

	w, body := render(t, func(c *gin.Context) { Error(c, fmt.Errorf("submit: %w", verrs)) })

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, body.Success)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "missing_client", body.Errors[0].Kind)
	assert.Equal(t, "outstanding", body.Errors[1].Kind)
	assert.Equal(t, "req-7", body.Meta.RequestID)

	single := &checkout.ValidationError{Kind: checkout.ErrKindInvalidAmount, Field: "amount", Message: "amount is out of range"}
	w, body = render(t, func(c *gin.Context) { Error(c, single) })
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "invalid_amount", body.Errors[0].Kind)
}

func TestErrorMarksBackendMessages(t *testing.T) {
	w, body := render(t, func(c *gin.Context) {
		Error(c, apperror.NewUpstreamError(http.StatusConflict, "Invoice already voided"))
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Invoice already voided", body.Message)
	assert.Equal(t, SourceBackend, body.Source)

	w, body = render(t, func(c *gin.Context) { Error(c, apperror.NewNotFoundError("Checkout")) })
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, body.Source)
	assert.Empty(t, body.Errors)

	w, _ = render(t, func(c *gin.Context) { Error(c, errors.New("boom")) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNoContent(t *testing.T) {
	w, _ := render(t, NoContent)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}
