package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutPhaseJSON(t *testing.T) {
	data, err := json.Marshal(CheckoutPhaseSubmitting)
	require.NoError(t, err)
	assert.JSONEq(t, `"Submitting"`, string(data))

	var p CheckoutPhase
	require.NoError(t, json.Unmarshal([]byte(`"Failed"`), &p))
	assert.Equal(t, CheckoutPhaseFailed, p)

	require.NoError(t, json.Unmarshal([]byte(`1`), &p))
	assert.Equal(t, CheckoutPhaseEditing, p)
}

func TestCheckoutPhaseOutOfRangeString(t *testing.T) {
	assert.Equal(t, "Creating", CheckoutPhase(42).String())
}

func TestCheckoutPhaseIsOpen(t *testing.T) {
	assert.True(t, CheckoutPhaseCreating.IsOpen())
	assert.True(t, CheckoutPhaseEditing.IsOpen())
	assert.True(t, CheckoutPhaseFailed.IsOpen())
	assert.False(t, CheckoutPhaseSubmitting.IsOpen())
	assert.False(t, CheckoutPhaseSettled.IsOpen())
}

func TestLineKindRejectsUnknown(t *testing.T) {
	var k LineKind
	assert.Error(t, json.Unmarshal([]byte(`"gift-card"`), &k))
	require.NoError(t, json.Unmarshal([]byte(`"product"`), &k))
	assert.Equal(t, LineKindProduct, k)
}

func TestDiscountKindRejectsUnknown(t *testing.T) {
	var k DiscountKind
	assert.Error(t, json.Unmarshal([]byte(`"bogo"`), &k))
	require.NoError(t, json.Unmarshal([]byte(`"percent"`), &k))
	assert.Equal(t, DiscountKindPercent, k)
}
