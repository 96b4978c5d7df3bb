package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentBookSeedsSingleDefaultLine(t *testing.T) {
	var b PaymentBook

	b.Seed(cash, 50000)
	require.Len(t, b.Lines, 1)
	assert.True(t, b.Lines[0].Default)
	assert.Equal(t, "cash", b.Lines[0].MethodID)
	assert.Equal(t, int64(50000), b.Lines[0].Amount)

	b.Seed(cash, 40000)
	require.Len(t, b.Lines, 1)
	assert.Equal(t, int64(40000), b.Lines[0].Amount)
	assert.Equal(t, int64(0), b.Entered())
}

func TestPaymentBookKeepsTypedAmountUntilDueChanges(t *testing.T) {
	var b PaymentBook
	b.Seed(cash, 40000)

	_, err := b.Update(b.Lines[0].ID, PaymentUpdate{Amount: ptr(int64(45000))})
	require.NoError(t, err)

	b.Seed(cash, 40000)
	assert.Equal(t, int64(45000), b.Lines[0].Amount)

	b.Seed(cash, 30000)
	assert.Equal(t, int64(30000), b.Lines[0].Amount)
}

func TestPaymentBookStopsSeedingOnceManual(t *testing.T) {
	var b PaymentBook
	b.Seed(cash, 100000)
	b.Update(b.Lines[0].ID, PaymentUpdate{Amount: ptr(int64(40000))})
	second := b.Add(card, 60000, " 123456 ")

	assert.True(t, b.Manual)
	assert.Equal(t, "123456", second.Reference)
	assert.Equal(t, int64(100000), b.Entered())

	b.Seed(cash, 70000)
	assert.Equal(t, int64(40000), b.Lines[0].Amount)
	assert.Equal(t, int64(100000), b.Total())

	require.NoError(t, b.Remove(second.ID))
	b.Seed(cash, 70000)
	require.Len(t, b.Lines, 1)
	assert.Equal(t, int64(40000), b.Lines[0].Amount)
}

func TestPaymentBookRemoveDefaultLineIsSticky(t *testing.T) {
	var b PaymentBook
	b.Seed(cash, 10000)
	require.NoError(t, b.Remove(b.Lines[0].ID))

	b.Seed(cash, 10000)
	assert.Empty(t, b.Lines)
}

func TestPaymentBookNothingDue(t *testing.T) {
	var b PaymentBook
	b.Seed(cash, 0)
	assert.Empty(t, b.Lines)
	assert.False(t, b.Manual)
}

func TestPaymentBookUpdate(t *testing.T) {
	var b PaymentBook
	p := b.Add(cash, 1000, "")

	updated, err := b.Update(p.ID, PaymentUpdate{Method: &card, Reference: ptr("AUTH-1")})
	require.NoError(t, err)
	assert.Equal(t, "card", updated.MethodID)
	assert.True(t, updated.RequiresReference)
	assert.Equal(t, "AUTH-1", updated.Reference)
	assert.Equal(t, int64(1000), updated.Amount)

	_, err = b.Update(uuid.New(), PaymentUpdate{})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.ErrorIs(t, b.Remove(uuid.New()), ErrPaymentNotFound)
}
