package salonapi

import (
	"context"
	"net/http"
	"net/url"
)

// SearchClients runs the backend's quick search over name, phone and document.
func (c *Client) SearchClients(ctx context.Context, query string) ([]Client, error) {
	var clients []Client
	err := c.do(ctx, http.MethodGet, "clients/search", url.Values{"q": {query}}, nil, &clients)
	return clients, err
}

func (c *Client) GetClient(ctx context.Context, id string) (*Client, error) {
	var client Client
	if err := c.do(ctx, http.MethodGet, "clients/"+url.PathEscape(id), nil, nil, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (c *Client) CreateClient(ctx context.Context, input ClientInput) (*Client, error) {
	var client Client
	if err := c.do(ctx, http.MethodPost, "clients", nil, input, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// ClientDeposits returns the client's deposits that still hold a balance.
func (c *Client) ClientDeposits(ctx context.Context, clientID string) (*DepositBalance, error) {
	var balance DepositBalance
	if err := c.do(ctx, http.MethodGet, "clients/"+url.PathEscape(clientID)+"/deposits", nil, nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}
