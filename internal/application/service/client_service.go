package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/sangkips/salon-checkout/internal/infrastructure/salonapi"
	"github.com/sangkips/salon-checkout/pkg/apperror"
)

const minSearchLength = 2

// ClientService looks up and registers salon clients from the checkout screen
type ClientService struct {
	backend ClientBackend
}

// NewClientService creates a new client service
func NewClientService(backend ClientBackend) *ClientService {
	return &ClientService{backend: backend}
}

// Search runs the quick search. Queries shorter than two characters return nothing.
func (s *ClientService) Search(ctx context.Context, query string) ([]salonapi.Client, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchLength {
		return []salonapi.Client{}, nil
	}
	clients, err := s.backend.SearchClients(ctx, query)
	if err != nil {
		return nil, err
	}
	if clients == nil {
		clients = []salonapi.Client{}
	}
	return clients, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*salonapi.Client, error) {
	return s.backend.GetClient(ctx, id)
}

// Create registers a walk-in client. A name and one way to reach the client are required.
func (s *ClientService) Create(ctx context.Context, input salonapi.ClientInput) (*salonapi.Client, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Document = strings.TrimSpace(input.Document)
	input.Email = strings.TrimSpace(input.Email)

	var errs []apperror.FieldError
	if input.Name == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if input.Phone == "" && input.Document == "" && input.Email == "" {
		errs = append(errs, apperror.FieldError{Field: "phone", Message: "a phone, document or email is required"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	return s.backend.CreateClient(ctx, input)
}

// Deposits returns the client's deposits with a remaining balance
func (s *ClientService) Deposits(ctx context.Context, clientID string) (*salonapi.DepositBalance, error) {
	balance, err := s.backend.ClientDeposits(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if balance.Deposits == nil {
		balance.Deposits = []salonapi.Deposit{}
	}
	return balance, nil
}
