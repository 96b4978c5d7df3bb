package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/salon-checkout/internal/application/service"
	"github.com/sangkips/salon-checkout/internal/domain/enum"
	"github.com/sangkips/salon-checkout/internal/infrastructure/salonapi"
	"github.com/sangkips/salon-checkout/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// jsonCache stores values as JSON like the Redis cache does
type jsonCache struct {
	entries map[string][]byte
}

func newJSONCache() *jsonCache {
	return &jsonCache{entries: map[string][]byte{}}
}

func (c *jsonCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *jsonCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *jsonCache) Invalidate(_ context.Context, prefix string) error {
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func TestCatalogListsAreCached(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListPaymentMethods", mock.Anything).Return(paymentMethods, nil).Once()
	ctx := context.Background()

	svc := service.NewCatalogService(backend, newJSONCache(), time.Minute)

	first, err := svc.PaymentMethods(ctx)
	require.NoError(t, err)
	second, err := svc.PaymentMethods(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	backend.AssertNumberOfCalls(t, "ListPaymentMethods", 1)

	require.NoError(t, svc.Invalidate(ctx))
	backend.On("ListPaymentMethods", mock.Anything).Return(paymentMethods[:1], nil).Once()

	third, err := svc.PaymentMethods(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 1)
	backend.AssertNumberOfCalls(t, "ListPaymentMethods", 2)
}

func TestCatalogBackendErrorIsNotCached(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ListProducts", mock.Anything).Return(nil, apperror.ErrBackendDown).Once()
	backend.On("ListProducts", mock.Anything).Return([]salonapi.Product{{ID: "prd-1", Name: "Cera", Price: 18000}}, nil).Once()
	ctx := context.Background()

	svc := service.NewCatalogService(backend, newJSONCache(), time.Minute)

	_, err := svc.Product(ctx, "prd-1")
	require.ErrorIs(t, err, apperror.ErrBackendDown)

	p, err := svc.Product(ctx, "prd-1")
	require.NoError(t, err)
	assert.Equal(t, "Cera", p.Name)
}

func TestCatalogLookups(t *testing.T) {
	f := newFixture(t)
	catalog := service.NewCatalogService(f.backend, nil, 0)
	ctx := context.Background()

	svc, err := catalog.Service(ctx, "svc-color")
	require.NoError(t, err)
	assert.Equal(t, int64(30000), svc.Price)

	sp, err := catalog.Specialist(ctx, "sp-laura")
	require.NoError(t, err)
	assert.Equal(t, "Laura", sp.Name)

	def, err := catalog.Discount(ctx, "d10")
	require.NoError(t, err)
	assert.Equal(t, enum.DiscountKindPercent, def.Kind)
	assert.True(t, def.Value.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(5000), def.Amount(50000))

	byCode, err := catalog.PaymentMethod(ctx, "card")
	require.NoError(t, err)
	assert.Equal(t, "m-card", byCode.ID)
	assert.True(t, byCode.RequiresReference)

	byID, err := catalog.PaymentMethod(ctx, "m-cash")
	require.NoError(t, err)
	assert.Equal(t, "cash", byID.Code)

	for _, lookup := range []func() error{
		func() error { _, err := catalog.Service(ctx, "nope"); return err },
		func() error { _, err := catalog.Product(ctx, "nope"); return err },
		func() error { _, err := catalog.Specialist(ctx, "nope"); return err },
		func() error { _, err := catalog.Discount(ctx, "nope"); return err },
		func() error { _, err := catalog.PaymentMethod(ctx, "nope"); return err },
	} {
		requireAppError(t, lookup(), http.StatusNotFound)
	}
}
