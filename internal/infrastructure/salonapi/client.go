// Package salonapi is the REST client for the salon backend: catalog, clients, deposits,
// invoices and held orders. The backend owns persistence, invoice numbering and stock; this
// client only moves JSON.
package salonapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sangkips/salon-checkout/internal/config"
	"github.com/sangkips/salon-checkout/pkg/apperror"
	"golang.org/x/oauth2"
)

const maxErrorBody = 64 << 10

// Client calls the salon backend. It is safe for concurrent use and never retries.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient builds a client for cfg.BaseURL. When cfg.Token is set every request carries it
// as a bearer token.
func NewClient(cfg *config.SalonConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid salon API URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Token,
			TokenType:   "Bearer",
		}))
		httpClient.Timeout = timeout
	}

	return &Client{baseURL: base, httpClient: httpClient}, nil
}

// envelope is the backend's success wrapper. Some endpoints answer with the bare payload.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// errorBody covers the error shapes the backend uses
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

func (e errorBody) text() string {
	for _, s := range []string{e.Message, e.Detail, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	ref := &url.URL{Path: strings.TrimLeft(path, "/")}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	endpoint := c.baseURL.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		slog.Error("salon backend request failed", "method", method, "path", path, "error", err)
		return apperror.ErrBackendDown
	}
	defer resp.Body.Close()

	slog.Debug("salon backend call", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		slog.Warn("salon backend rejected request", "method", method, "path", path, "status", resp.StatusCode, "message", eb.text())
		return apperror.NewUpstreamError(resp.StatusCode, eb.text())
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("reading salon backend response", "method", method, "path", path, "error", err)
		return apperror.ErrBackendDown
	}
	if err := decode(raw, out); err != nil {
		slog.Error("decoding salon backend response", "method", method, "path", path, "error", err)
		return apperror.NewUpstreamError(http.StatusBadGateway, "unexpected response from salon backend")
	}
	return nil
}

func decode(raw []byte, out interface{}) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		return json.Unmarshal(env.Data, out)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(raw, out)
}

func activeOnly() url.Values {
	return url.Values{"active": {"true"}}
}
