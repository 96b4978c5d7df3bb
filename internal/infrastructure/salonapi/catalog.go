package salonapi

import (
	"context"
	"net/http"

	"github.com/samber/lo"
)

// ListServices returns active services grouped by category, categories in the order the
// backend first lists them.
func (c *Client) ListServices(ctx context.Context) ([]ServiceCategory, error) {
	var services []Service
	if err := c.do(ctx, http.MethodGet, "services", activeOnly(), nil, &services); err != nil {
		return nil, err
	}
	return groupByCategory(services), nil
}

func groupByCategory(services []Service) []ServiceCategory {
	grouped := lo.GroupBy(services, func(s Service) string { return s.CategoryID })
	order := lo.Uniq(lo.Map(services, func(s Service, _ int) string { return s.CategoryID }))

	return lo.Map(order, func(id string, _ int) ServiceCategory {
		members := grouped[id]
		return ServiceCategory{ID: id, Name: members[0].CategoryName, Services: members}
	})
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	err := c.do(ctx, http.MethodGet, "products", activeOnly(), nil, &products)
	return products, err
}

func (c *Client) ListSpecialists(ctx context.Context) ([]Specialist, error) {
	var specialists []Specialist
	err := c.do(ctx, http.MethodGet, "specialists", activeOnly(), nil, &specialists)
	return specialists, err
}

func (c *Client) ListDiscounts(ctx context.Context) ([]Discount, error) {
	var discounts []Discount
	err := c.do(ctx, http.MethodGet, "discounts", activeOnly(), nil, &discounts)
	return discounts, err
}

func (c *Client) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	var methods []PaymentMethod
	err := c.do(ctx, http.MethodGet, "payment-methods", activeOnly(), nil, &methods)
	return methods, err
}
