package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/salon-checkout/internal/application/service"
	"github.com/sangkips/salon-checkout/internal/config"
	"github.com/sangkips/salon-checkout/internal/domain/checkout"
	"github.com/sangkips/salon-checkout/internal/domain/entity"
	"github.com/sangkips/salon-checkout/internal/domain/enum"
	"github.com/sangkips/salon-checkout/internal/domain/repository"
	"github.com/sangkips/salon-checkout/internal/infrastructure/cache"
	"github.com/sangkips/salon-checkout/internal/infrastructure/metrics"
	infraRepo "github.com/sangkips/salon-checkout/internal/infrastructure/repository"
	"github.com/sangkips/salon-checkout/internal/infrastructure/salonapi"
	"github.com/sangkips/salon-checkout/internal/infrastructure/tasks"
	"github.com/sangkips/salon-checkout/internal/presentation/http/handler"
	"github.com/sangkips/salon-checkout/internal/presentation/http/middleware"
	"github.com/sangkips/salon-checkout/pkg/apperror"
	"github.com/sangkips/salon-checkout/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type fakeBackend struct {
	invoicesCreated atomic.Int32
}

func int64Ptr(v int64) *int64 { return &v }

func (b *fakeBackend) ListServices(context.Context) ([]salonapi.ServiceCategory, error) {
	return []salonapi.ServiceCategory{{
		ID:   "cat-hair",
		Name: "Cabello",
		Services: []salonapi.Service{
			{ID: "svc-cut", Name: "Corte dama", CategoryID: "cat-hair", Price: 50000, CollaboratorPrice: int64Ptr(35000)},
		},
	}}, nil
}

func (b *fakeBackend) ListProducts(context.Context) ([]salonapi.Product, error) {
	return []salonapi.Product{{ID: "prd-shampoo", Name: "Shampoo", Price: 20000, Stock: 4}}, nil
}

func (b *fakeBackend) ListSpecialists(context.Context) ([]salonapi.Specialist, error) {
	return []salonapi.Specialist{{ID: "sp-laura", Name: "Laura"}}, nil
}

func (b *fakeBackend) ListDiscounts(context.Context) ([]salonapi.Discount, error) {
	return []salonapi.Discount{}, nil
}

func (b *fakeBackend) ListPaymentMethods(context.Context) ([]salonapi.PaymentMethod, error) {
	return []salonapi.PaymentMethod{
		{ID: "m-cash", Code: "cash", Name: "Efectivo"},
		{ID: "m-card", Code: "card", Name: "Tarjeta", RequiresReference: true},
	}, nil
}

func (b *fakeBackend) SearchClients(_ context.Context, query string) ([]salonapi.Client, error) {
	return []salonapi.Client{{ID: "c1", Name: "Ana " + query}}, nil
}

func (b *fakeBackend) GetClient(_ context.Context, id string) (*salonapi.Client, error) {
	if id != "c1" {
		return nil, apperror.NewNotFoundError("Client")
	}
	return &salonapi.Client{ID: "c1", Name: "Ana"}, nil
}

func (b *fakeBackend) CreateClient(_ context.Context, input salonapi.ClientInput) (*salonapi.Client, error) {
	return &salonapi.Client{ID: "c-new", Name: input.Name, Phone: input.Phone}, nil
}

func (b *fakeBackend) ClientDeposits(context.Context, string) (*salonapi.DepositBalance, error) {
	return &salonapi.DepositBalance{Deposits: []salonapi.Deposit{}}, nil
}

func (b *fakeBackend) CreateInvoice(_ context.Context, sub *checkout.Submission) (*salonapi.Invoice, error) {
	n := b.invoicesCreated.Add(1)
	return &salonapi.Invoice{ID: "inv-1", Number: "F-" + string(rune('0'+n)), Total: sub.Totals.Total}, nil
}

func (b *fakeBackend) UpdateInvoice(_ context.Context, id string, sub *checkout.Submission) (*salonapi.Invoice, error) {
	return &salonapi.Invoice{ID: id, Total: sub.Totals.Total}, nil
}

func (b *fakeBackend) GetInvoice(_ context.Context, id string) (*salonapi.Invoice, error) {
	if id != "inv-1" {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return &salonapi.Invoice{
		ID:         "inv-1",
		Number:     "F-1",
		ClientName: "Ana",
		IssuedAt:   time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Lines:      []salonapi.InvoiceLine{{Kind: enum.LineKindService, Name: "Corte dama", Quantity: 1, UnitPrice: 50000, Total: 50000}},
		Subtotal:   50000,
		Total:      50000,
		Payments:   []salonapi.InvoicePayment{{ID: "pay-1", MethodName: "Efectivo", Amount: 50000}},
	}, nil
}

func (b *fakeBackend) CreateOrder(_ context.Context, sub *checkout.Submission) (*salonapi.Order, error) {
	return &salonapi.Order{ID: "ord-1", Number: "P-1", Total: sub.Totals.Total}, nil
}

// memSessions is a minimal in-memory session store
type memSessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entity.CheckoutSession
}

func copySession(s entity.CheckoutSession) entity.CheckoutSession {
	s.Lines = append([]entity.SessionLine(nil), s.Lines...)
	s.Payments = append([]entity.SessionPayment(nil), s.Payments...)
	s.Deposits = append([]entity.SessionDeposit(nil), s.Deposits...)
	return s
}

func (m *memSessions) Create(_ context.Context, s *entity.CheckoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.sessions[s.ID] = copySession(*s)
	return nil
}

func (m *memSessions) GetByID(_ context.Context, id uuid.UUID) (*entity.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	out := copySession(s)
	return &out, nil
}

func (m *memSessions) GetOpenByInvoice(context.Context, string) (*entity.CheckoutSession, error) {
	return nil, nil
}

func (m *memSessions) Save(_ context.Context, s *entity.CheckoutSession, from enum.CheckoutPhase) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.sessions[s.ID]
	if !ok || stored.Phase != from {
		return false, nil
	}
	m.sessions[s.ID] = copySession(*s)
	return true, nil
}

func (m *memSessions) UpdatePhase(_ context.Context, id uuid.UUID, from, to enum.CheckoutPhase) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.Phase != from {
		return false, nil
	}
	s.Phase = to
	m.sessions[id] = s
	return true, nil
}

func (m *memSessions) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memSessions) ListOpen(context.Context, *repository.SessionFilterParams) ([]entity.CheckoutSession, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.CheckoutSession
	for _, s := range m.sessions {
		if s.Phase.IsOpen() {
			out = append(out, copySession(s))
		}
	}
	return out, int64(len(out)), nil
}

func (m *memSessions) DeleteStale(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// memKeys is an in-memory idempotency store
type memKeys struct {
	mu   sync.Mutex
	keys map[string]entity.IdempotencyKey
}

func (m *memKeys) GetByKey(_ context.Context, key string, cashierID uuid.UUID) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.keys[cashierID.String()+"/"+key]
	if !ok {
		return nil, nil
	}
	return &k, nil
}

func (m *memKeys) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[ikey.CashierID.String()+"/"+ikey.Key] = *ikey
	return nil
}

func (m *memKeys) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

// --- Router ---

type testEnv struct {
	router    *gin.Engine
	backend   *fakeBackend
	cashierID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := &fakeBackend{}
	sessions := &memSessions{sessions: make(map[uuid.UUID]entity.CheckoutSession)}
	keys := &memKeys{keys: make(map[string]entity.IdempotencyKey)}

	catalog := service.NewCatalogService(backend, cache.NewNoopCache(), time.Minute)
	checkoutSvc := service.NewCheckoutService(sessions, backend, catalog, tasks.DisabledReceiptQueue{}, metrics.New(),
		&config.CheckoutConfig{TaxRate: decimal.RequireFromString("0.19"), DefaultMethod: "cash", Locale: "es-CO"})
	printerSvc := service.NewPrinterService(printer.NewNullPrinter(), backend,
		&config.ReceiptConfig{SalonName: "Salon Bella"}, &config.PrinterConfig{Type: "none", Width: 32}, "es-CO")

	checkouts := handler.NewCheckoutHandler(checkoutSvc)
	catalogs := handler.NewCatalogHandler(catalog)
	clients := handler.NewClientHandler(service.NewClientService(backend))
	printers := handler.NewPrinterHandler(printerSvc)

	cashierID := uuid.New()
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", cashierID)
		c.Set("user_name", "Marta")
		c.Set("user_roles", []string{"cashier"})
		c.Request = c.Request.WithContext(infraRepo.WithCashier(c.Request.Context(), cashierID))
		c.Next()
	})

	idem := middleware.IdempotencyRequired(middleware.IdempotencyConfig{Repo: keys})
	api.POST("/checkouts", checkouts.Open)
	api.GET("/checkouts", checkouts.List)
	api.POST("/checkouts/from-invoice/:invoice_id", checkouts.OpenFromInvoice)
	api.PUT("/checkouts/:id/previous-payments/:payment_id", checkouts.EditPreviousPayment)
	api.GET("/checkouts/:id", checkouts.Get)
	api.DELETE("/checkouts/:id", checkouts.Discard)
	api.PUT("/checkouts/:id/header", checkouts.UpdateHeader)
	api.POST("/checkouts/:id/lines", checkouts.AddLine)
	api.PUT("/checkouts/:id/lines/:line_id", checkouts.UpdateLine)
	api.POST("/checkouts/:id/payments", checkouts.AddPayment)
	api.POST("/checkouts/:id/submit", idem, checkouts.Submit)
	api.POST("/checkouts/:id/hold", idem, checkouts.Hold)
	api.GET("/catalog/services", catalogs.Services)
	api.GET("/catalog/payment-methods", catalogs.PaymentMethods)
	api.GET("/clients/search", clients.Search)
	api.POST("/clients", clients.Create)
	api.GET("/clients/:id", clients.Get)
	api.GET("/printer/status", printers.GetStatus)
	api.POST("/printer/receipts/:invoice_id", printers.PrintReceipt)

	return &testEnv{router: r, backend: backend, cashierID: cashierID}
}

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

type checkoutData struct {
	ID    string `json:"id"`
	Phase string `json:"phase"`
	Lines []struct {
		ID    string `json:"id"`
		Total int64  `json:"total"`
	} `json:"lines"`
	Payments []struct {
		ID     string `json:"id"`
		Amount int64  `json:"amount"`
	} `json:"payments"`
	Totals struct {
		Total int64 `json:"total"`
	} `json:"totals"`
	CanSubmit bool `json:"can_submit"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// openWithLine opens a checkout for client c1 with one haircut
func (e *testEnv) openWithLine(t *testing.T) checkoutData {
	t.Helper()
	w, env := e.do(t, http.MethodPost, "/api/v1/checkouts", map[string]string{"client_id": "c1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	opened := decode[checkoutData](t, env.Data)

	w, env = e.do(t, http.MethodPost, "/api/v1/checkouts/"+opened.ID+"/lines", map[string]interface{}{
		"kind": "service", "item_id": "svc-cut", "staff_id": "sp-laura",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[checkoutData](t, env.Data)
}

// --- Tests ---

func TestCheckoutHandler_OpenAddLineAndGet(t *testing.T) {
	e := newTestEnv(t)

	view := e.openWithLine(t)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, int64(50000), view.Totals.Total)
	require.Len(t, view.Payments, 1)
	assert.Equal(t, int64(50000), view.Payments[0].Amount)
	assert.True(t, view.CanSubmit)

	w, env := e.do(t, http.MethodGet, "/api/v1/checkouts/"+view.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, view.ID, decode[checkoutData](t, env.Data).ID)
}

func TestCheckoutHandler_OpenWithoutBody(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodPost, "/api/v1/checkouts", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	view := decode[checkoutData](t, env.Data)
	assert.Empty(t, view.Lines)
	assert.False(t, view.CanSubmit)
}

func TestCheckoutHandler_BadPathAndUnknownCheckout(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodGet, "/api/v1/checkouts/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id format", env.Message)

	w, _ = e.do(t, http.MethodGet, "/api/v1/checkouts/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutHandler_AddLineValidation(t *testing.T) {
	e := newTestEnv(t)
	view := e.openWithLine(t)

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{"unknown kind", map[string]interface{}{"kind": "gift", "item_id": "svc-cut"}, http.StatusBadRequest},
		{"missing item", map[string]interface{}{"kind": "service"}, http.StatusBadRequest},
		{"fractional discount", map[string]interface{}{"kind": "service", "item_id": "svc-cut", "discount": 10.5}, http.StatusBadRequest},
		{"unknown item", map[string]interface{}{"kind": "product", "item_id": "prd-missing"}, http.StatusUnprocessableEntity},
		{"product", map[string]interface{}{"kind": "product", "item_id": "prd-shampoo", "quantity": 2}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := e.do(t, http.MethodPost, "/api/v1/checkouts/"+view.ID+"/lines", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestCheckoutHandler_UpdateLineAcceptsFormattedAmount(t *testing.T) {
	e := newTestEnv(t)
	view := e.openWithLine(t)

	w, env := e.do(t, http.MethodPut, "/api/v1/checkouts/"+view.ID+"/lines/"+view.Lines[0].ID,
		map[string]interface{}{"discount": "5.000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decode[checkoutData](t, env.Data)
	assert.Equal(t, int64(45000), updated.Totals.Total)
}

func TestCheckoutHandler_SubmitRequiresIdempotencyKey(t *testing.T) {
	e := newTestEnv(t)
	view := e.openWithLine(t)

	w, env := e.do(t, http.MethodPost, "/api/v1/checkouts/"+view.ID+"/submit", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "Idempotency-Key")
	assert.Zero(t, e.backend.invoicesCreated.Load())
}

func TestCheckoutHandler_SubmitReplaysStoredResponse(t *testing.T) {
	e := newTestEnv(t)
	view := e.openWithLine(t)
	path := "/api/v1/checkouts/" + view.ID + "/submit"

	w, env := e.do(t, http.MethodPost, path, nil, middleware.IdempotencyKeyHeader, "key-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := decode[service.SubmitResult](t, env.Data)
	assert.Equal(t, "inv-1", result.InvoiceID)
	assert.Equal(t, checkout.SubmitModeCreate, result.Mode)
	assert.Equal(t, int64(50000), result.Total)

	w, env = e.do(t, http.MethodPost, path, nil, middleware.IdempotencyKeyHeader, "key-1")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get(middleware.IdempotencyReplayedHeader))
	assert.Equal(t, "inv-1", decode[service.SubmitResult](t, env.Data).InvoiceID)
	assert.Equal(t, int32(1), e.backend.invoicesCreated.Load())
}

func TestCheckoutHandler_IdempotencyKeyReusedForOtherCheckout(t *testing.T) {
	e := newTestEnv(t)
	first := e.openWithLine(t)
	second := e.openWithLine(t)

	w, _ := e.do(t, http.MethodPost, "/api/v1/checkouts/"+first.ID+"/submit", nil, middleware.IdempotencyKeyHeader, "key-1")
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = e.do(t, http.MethodPost, "/api/v1/checkouts/"+second.ID+"/submit", nil, middleware.IdempotencyKeyHeader, "key-1")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, int32(1), e.backend.invoicesCreated.Load())
}

func TestCheckoutHandler_SubmitValidationFailure(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodPost, "/api/v1/checkouts", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[checkoutData](t, env.Data).ID

	w, _ = e.do(t, http.MethodPost, "/api/v1/checkouts/"+id+"/lines", map[string]interface{}{"kind": "service", "item_id": "svc-cut"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = e.do(t, http.MethodPost, "/api/v1/checkouts/"+id+"/submit", nil, middleware.IdempotencyKeyHeader, "key-2")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotEmpty(t, env.Errors)
	assert.Equal(t, "missing_client", env.Errors[0].Kind)

	// A rejected submit is not stored, so the same key can be used once the cart is fixed
	w, _ = e.do(t, http.MethodPost, "/api/v1/checkouts/"+id+"/submit", nil, middleware.IdempotencyKeyHeader, "key-2")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, w.Header().Get(middleware.IdempotencyReplayedHeader))
}

func TestCheckoutHandler_PaymentRequiresReference(t *testing.T) {
	e := newTestEnv(t)
	view := e.openWithLine(t)

	w, env := e.do(t, http.MethodPost, "/api/v1/checkouts/"+view.ID+"/payments",
		map[string]interface{}{"method_id": "m-card", "amount": "20.000"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	updated := decode[checkoutData](t, env.Data)
	require.Len(t, updated.Payments, 2)
	assert.False(t, updated.CanSubmit)

	w, env = e.do(t, http.MethodPost, "/api/v1/checkouts/"+view.ID+"/submit", nil, middleware.IdempotencyKeyHeader, "key-3")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	kinds := make([]string, 0, len(env.Errors))
	for _, fe := range env.Errors {
		kinds = append(kinds, fe.Kind)
	}
	assert.Contains(t, kinds, "missing_reference")
}

func TestCheckoutHandler_Hold(t *testing.T) {
	e := newTestEnv(t)
	view := e.openWithLine(t)

	w, env := e.do(t, http.MethodPost, "/api/v1/checkouts/"+view.ID+"/hold", nil, middleware.IdempotencyKeyHeader, "hold-1")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	held := decode[service.HoldResult](t, env.Data)
	assert.Equal(t, "ord-1", held.OrderID)
	assert.Equal(t, int64(50000), held.Total)
}

func TestCheckoutHandler_ListAndDiscard(t *testing.T) {
	e := newTestEnv(t)
	view := e.openWithLine(t)

	w, env := e.do(t, http.MethodGet, "/api/v1/checkouts?page=1&per_page=10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list := decode[struct {
		Items []service.SessionSummary `json:"items"`
	}](t, env.Data)
	require.Len(t, list.Items, 1)
	assert.Equal(t, int64(50000), list.Items[0].Total)

	w, _ = e.do(t, http.MethodDelete, "/api/v1/checkouts/"+view.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, _ = e.do(t, http.MethodGet, "/api/v1/checkouts/"+view.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutHandler_EditPreviousPaymentKeepsSign(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodPost, "/api/v1/checkouts/from-invoice/inv-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id := decode[checkoutData](t, env.Data).ID
	path := "/api/v1/checkouts/" + id + "/previous-payments/pay-1"

	type editView struct {
		Previous struct {
			Payments []struct {
				Amount int64 `json:"amount"`
			} `json:"payments"`
		} `json:"previous"`
		Settlement struct {
			Outstanding int64 `json:"outstanding"`
			Errors      []struct {
				Kind string `json:"kind"`
			} `json:"errors"`
		} `json:"settlement"`
	}

	w, env = e.do(t, http.MethodPut, path, map[string]interface{}{"amount": "45.000"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode[editView](t, env.Data)
	assert.Equal(t, int64(45000), view.Previous.Payments[0].Amount)
	assert.Equal(t, int64(5000), view.Settlement.Outstanding)

	w, env = e.do(t, http.MethodPut, path, map[string]interface{}{"amount": -5000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view = decode[editView](t, env.Data)
	assert.Equal(t, int64(-5000), view.Previous.Payments[0].Amount)
	kinds := make([]string, 0, len(view.Settlement.Errors))
	for _, se := range view.Settlement.Errors {
		kinds = append(kinds, se.Kind)
	}
	assert.Contains(t, kinds, "invalid_amount")

	w, _ = e.do(t, http.MethodPut, path, map[string]interface{}{"amount": 5e18})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogHandler(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodGet, "/api/v1/catalog/services", nil)
	require.Equal(t, http.StatusOK, w.Code)
	categories := decode[[]salonapi.ServiceCategory](t, env.Data)
	require.Len(t, categories, 1)
	assert.Equal(t, "svc-cut", categories[0].Services[0].ID)

	w, env = e.do(t, http.MethodGet, "/api/v1/catalog/payment-methods", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]salonapi.PaymentMethod](t, env.Data), 2)
}

func TestClientHandler(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodGet, "/api/v1/clients/search?q=a", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]salonapi.Client](t, env.Data))

	w, env = e.do(t, http.MethodGet, "/api/v1/clients/search?q=ana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]salonapi.Client](t, env.Data), 1)

	w, _ = e.do(t, http.MethodGet, "/api/v1/clients/c404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = e.do(t, http.MethodPost, "/api/v1/clients", map[string]string{"name": "Lucia"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, env = e.do(t, http.MethodPost, "/api/v1/clients", map[string]string{"name": "Lucia", "phone": "3001234567"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "c-new", decode[salonapi.Client](t, env.Data).ID)

	w, _ = e.do(t, http.MethodPost, "/api/v1/clients", map[string]string{"name": "Lucia", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrinterHandler(t *testing.T) {
	e := newTestEnv(t)

	w, env := e.do(t, http.MethodGet, "/api/v1/printer/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[service.PrinterStatus](t, env.Data)
	assert.False(t, status.Configured)

	w, env = e.do(t, http.MethodPost, "/api/v1/printer/receipts/inv-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.Contains(string(env.Data), "F-1"))

	w, _ = e.do(t, http.MethodPost, "/api/v1/printer/receipts/inv-404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
