package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/sangkips/salon-checkout/internal/domain/checkout"
	"github.com/sangkips/salon-checkout/internal/infrastructure/cache"
	"github.com/sangkips/salon-checkout/internal/infrastructure/salonapi"
	"github.com/sangkips/salon-checkout/pkg/apperror"
)

const (
	catalogPrefix      = "catalog:"
	keyServices        = catalogPrefix + "services"
	keyProducts        = catalogPrefix + "products"
	keySpecialists     = catalogPrefix + "specialists"
	keyDiscounts       = catalogPrefix + "discounts"
	keyPaymentMethods  = catalogPrefix + "payment-methods"
	defaultCatalogTTLs = 5 * time.Minute
)

// CatalogService serves the active catalog, cached between backend reads
type CatalogService struct {
	backend CatalogBackend
	cache   cache.Cache
	ttl     time.Duration
}

// NewCatalogService creates a new catalog service
func NewCatalogService(backend CatalogBackend, c cache.Cache, ttl time.Duration) *CatalogService {
	if ttl <= 0 {
		ttl = defaultCatalogTTLs
	}
	if c == nil {
		c = cache.NewNoopCache()
	}
	return &CatalogService{backend: backend, cache: c, ttl: ttl}
}

func (s *CatalogService) Services(ctx context.Context) ([]salonapi.ServiceCategory, error) {
	return cache.Remember(ctx, s.cache, keyServices, s.ttl, s.backend.ListServices)
}

func (s *CatalogService) Products(ctx context.Context) ([]salonapi.Product, error) {
	return cache.Remember(ctx, s.cache, keyProducts, s.ttl, s.backend.ListProducts)
}

func (s *CatalogService) Specialists(ctx context.Context) ([]salonapi.Specialist, error) {
	return cache.Remember(ctx, s.cache, keySpecialists, s.ttl, s.backend.ListSpecialists)
}

func (s *CatalogService) Discounts(ctx context.Context) ([]salonapi.Discount, error) {
	return cache.Remember(ctx, s.cache, keyDiscounts, s.ttl, s.backend.ListDiscounts)
}

func (s *CatalogService) PaymentMethods(ctx context.Context) ([]salonapi.PaymentMethod, error) {
	return cache.Remember(ctx, s.cache, keyPaymentMethods, s.ttl, s.backend.ListPaymentMethods)
}

// Invalidate drops every cached catalog list
func (s *CatalogService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, catalogPrefix)
}

// Service finds an active service by id
func (s *CatalogService) Service(ctx context.Context, id string) (*salonapi.Service, error) {
	categories, err := s.Services(ctx)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		if svc, ok := lo.Find(category.Services, func(svc salonapi.Service) bool { return svc.ID == id }); ok {
			return &svc, nil
		}
	}
	return nil, apperror.NewNotFoundError("Service")
}

// Product finds an active product by id
func (s *CatalogService) Product(ctx context.Context, id string) (*salonapi.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := lo.Find(products, func(p salonapi.Product) bool { return p.ID == id })
	if !ok {
		return nil, apperror.NewNotFoundError("Product")
	}
	return &p, nil
}

// Specialist finds an active specialist by id
func (s *CatalogService) Specialist(ctx context.Context, id string) (*salonapi.Specialist, error) {
	specialists, err := s.Specialists(ctx)
	if err != nil {
		return nil, err
	}
	sp, ok := lo.Find(specialists, func(sp salonapi.Specialist) bool { return sp.ID == id })
	if !ok {
		return nil, apperror.NewNotFoundError("Specialist")
	}
	return &sp, nil
}

// Discount resolves an active discount definition
func (s *CatalogService) Discount(ctx context.Context, id string) (*checkout.DiscountDefinition, error) {
	discounts, err := s.Discounts(ctx)
	if err != nil {
		return nil, err
	}
	d, ok := lo.Find(discounts, func(d salonapi.Discount) bool { return d.ID == id })
	if !ok {
		return nil, apperror.NewNotFoundError("Discount")
	}
	return &checkout.DiscountDefinition{ID: d.ID, Name: d.Name, Kind: d.Kind, Value: d.Value}, nil
}

// PaymentMethod resolves an active payment method by id, or by code when no id matches
func (s *CatalogService) PaymentMethod(ctx context.Context, idOrCode string) (*checkout.PaymentMethod, error) {
	methods, err := s.PaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := lo.Find(methods, func(m salonapi.PaymentMethod) bool { return m.ID == idOrCode })
	if !ok {
		m, ok = lo.Find(methods, func(m salonapi.PaymentMethod) bool { return m.Code == idOrCode })
	}
	if !ok {
		return nil, apperror.NewNotFoundError("Payment method")
	}
	return &checkout.PaymentMethod{ID: m.ID, Code: m.Code, Name: m.Name, RequiresReference: m.RequiresReference}, nil
}
