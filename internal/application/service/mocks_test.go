package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salon-checkout/internal/domain/checkout"
	"github.com/sangkips/salon-checkout/internal/domain/entity"
	"github.com/sangkips/salon-checkout/internal/domain/enum"
	"github.com/sangkips/salon-checkout/internal/domain/repository"
	"github.com/sangkips/salon-checkout/internal/infrastructure/salonapi"
	"github.com/stretchr/testify/mock"
)

// --- Session store ---

// memSessions keeps sessions in memory, copying on every read and write like a database would
type memSessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entity.CheckoutSession
	saves    int
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[uuid.UUID]entity.CheckoutSession)}
}

func copySession(s entity.CheckoutSession) entity.CheckoutSession {
	s.Lines = append([]entity.SessionLine(nil), s.Lines...)
	s.Payments = append([]entity.SessionPayment(nil), s.Payments...)
	s.Deposits = append([]entity.SessionDeposit(nil), s.Deposits...)
	return s
}

func (m *memSessions) Create(_ context.Context, session *entity.CheckoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt
	m.sessions[session.ID] = copySession(*session)
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

func (m *memSessions) GetOpenByInvoice(_ context.Context, invoiceID string) (*entity.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.EditingInvoiceID == invoiceID && s.Phase.IsOpen() {
			out := copySession(s)
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memSessions) Save(_ context.Context, session *entity.CheckoutSession, from enum.CheckoutPhase) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.sessions[session.ID]
	if !ok || stored.Phase != from {
		return false, nil
	}
	session.UpdatedAt = time.Now()
	m.sessions[session.ID] = copySession(*session)
	m.saves++
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

func (m *memSessions) ListOpen(_ context.Context, params *repository.SessionFilterParams) ([]entity.CheckoutSession, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.CheckoutSession
	for _, s := range m.sessions {
		if s.Phase.IsOpen() && (params.ClientID == "" || s.ClientID == params.ClientID) {
			out = append(out, copySession(s))
		}
	}
	return out, int64(len(out)), nil
}

func (m *memSessions) DeleteStale(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(before) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *memSessions) put(s entity.CheckoutSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = copySession(s)
}

func (m *memSessions) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// --- Backend ---

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListServices(ctx context.Context) ([]salonapi.ServiceCategory, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]salonapi.ServiceCategory)
	return out, args.Error(1)
}

func (m *MockBackend) ListProducts(ctx context.Context) ([]salonapi.Product, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]salonapi.Product)
	return out, args.Error(1)
}

func (m *MockBackend) ListSpecialists(ctx context.Context) ([]salonapi.Specialist, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]salonapi.Specialist)
	return out, args.Error(1)
}

func (m *MockBackend) ListDiscounts(ctx context.Context) ([]salonapi.Discount, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]salonapi.Discount)
	return out, args.Error(1)
}

func (m *MockBackend) ListPaymentMethods(ctx context.Context) ([]salonapi.PaymentMethod, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]salonapi.PaymentMethod)
	return out, args.Error(1)
}

func (m *MockBackend) SearchClients(ctx context.Context, query string) ([]salonapi.Client, error) {
	args := m.Called(ctx, query)
	out, _ := args.Get(0).([]salonapi.Client)
	return out, args.Error(1)
}

func (m *MockBackend) GetClient(ctx context.Context, id string) (*salonapi.Client, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*salonapi.Client)
	return out, args.Error(1)
}

func (m *MockBackend) CreateClient(ctx context.Context, input salonapi.ClientInput) (*salonapi.Client, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*salonapi.Client)
	return out, args.Error(1)
}

func (m *MockBackend) ClientDeposits(ctx context.Context, clientID string) (*salonapi.DepositBalance, error) {
	args := m.Called(ctx, clientID)
	out, _ := args.Get(0).(*salonapi.DepositBalance)
	return out, args.Error(1)
}

func (m *MockBackend) CreateInvoice(ctx context.Context, sub *checkout.Submission) (*salonapi.Invoice, error) {
	args := m.Called(ctx, sub)
	out, _ := args.Get(0).(*salonapi.Invoice)
	return out, args.Error(1)
}

func (m *MockBackend) UpdateInvoice(ctx context.Context, id string, sub *checkout.Submission) (*salonapi.Invoice, error) {
	args := m.Called(ctx, id, sub)
	out, _ := args.Get(0).(*salonapi.Invoice)
	return out, args.Error(1)
}

func (m *MockBackend) GetInvoice(ctx context.Context, id string) (*salonapi.Invoice, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*salonapi.Invoice)
	return out, args.Error(1)
}

func (m *MockBackend) CreateOrder(ctx context.Context, sub *checkout.Submission) (*salonapi.Order, error) {
	args := m.Called(ctx, sub)
	out, _ := args.Get(0).(*salonapi.Order)
	return out, args.Error(1)
}

// --- Receipts and metrics ---

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) EnqueueReceipt(ctx context.Context, invoiceID, cashier string) error {
	args := m.Called(ctx, invoiceID, cashier)
	return args.Error(0)
}

type submission struct {
	mode    string
	outcome string
}

// recorder collects submission outcomes
type recorder struct {
	mu          sync.Mutex
	submissions []submission
	settled     map[string]int64
	failures    []string
}

func newRecorder() *recorder {
	return &recorder{settled: make(map[string]int64)}
}

func (r *recorder) ObserveSubmission(mode, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = append(r.submissions, submission{mode: mode, outcome: outcome})
}

func (r *recorder) ObserveSettled(mode string, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settled[mode] += total
}

func (r *recorder) ObserveBackendFailure(operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, operation)
}

func (r *recorder) outcomes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.submissions))
	for i, s := range r.submissions {
		out[i] = s.mode + ":" + s.outcome
	}
	return out
}
