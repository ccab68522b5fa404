package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/warehouse-client/internal/domain/apierr"
	"github.com/yourusername/warehouse-client/internal/domain/entity"
	"github.com/yourusername/warehouse-client/internal/domain/repository"
)

const maxBody = 4 << 20

// TokenSource supplies the bearer credential for each call.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client talks to the warehouse REST service.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

var (
	_ repository.ProductGateway = (*Client)(nil)
	_ repository.AdminGateway   = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client rooted at baseURL. tokens may be nil.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "backend")
	return c
}

func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var out []entity.Product
	if err := c.do(ctx, http.MethodGet, "/Products", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, fields entity.ProductFields) (*entity.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/Products", nil, fields, &raw); err != nil {
		return nil, err
	}
	return productEcho(raw), nil
}

func (c *Client) UpdateProduct(ctx context.Context, id entity.ID, fields entity.ProductFields) (*entity.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/Products", idQuery(id), fields, &raw); err != nil {
		return nil, err
	}
	return productEcho(raw), nil
}

func (c *Client) DeleteProduct(ctx context.Context, id entity.ID) error {
	return c.do(ctx, http.MethodDelete, "/Products", idQuery(id), nil, nil)
}

func (c *Client) ListAdmins(ctx context.Context) ([]entity.Admin, error) {
	var out []entity.Admin
	if err := c.do(ctx, http.MethodGet, "/admins", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RegisterAdmin(ctx context.Context, fields entity.AdminFields) (*entity.Admin, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/admins/register", nil, fields, &raw); err != nil {
		return nil, err
	}
	var body struct {
		Admin *entity.Admin `json:"admin"`
	}
	if json.Unmarshal(raw, &body) != nil || body.Admin == nil || body.Admin.ID == "" {
		return nil, nil
	}
	return body.Admin, nil
}

func (c *Client) DeleteAdmin(ctx context.Context, id entity.ID) error {
	return c.do(ctx, http.MethodDelete, "/admins/"+url.PathEscape(id.String()), nil, nil, nil)
}

func (c *Client) Login(ctx context.Context, creds entity.Credentials) (repository.LoginResult, error) {
	var body struct {
		Admin       *entity.Admin `json:"admin"`
		Token       string        `json:"token"`
		AccessToken string        `json:"access_token"`
	}
	if err := c.do(ctx, http.MethodPost, "/admins/login", nil, creds, &body); err != nil {
		return repository.LoginResult{}, err
	}
	res := repository.LoginResult{Admin: body.Admin, Token: body.Token}
	if res.Token == "" {
		res.Token = body.AccessToken
	}
	return res, nil
}

func idQuery(id entity.ID) url.Values {
	return url.Values{"id": []string{id.String()}}
}

// productEcho returns the record the backend sent back, or nil when it
// sent nothing with an id.
func productEcho(raw json.RawMessage) *entity.Product {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var p entity.Product
	if json.Unmarshal(raw, &p) == nil && p.ID != "" {
		return &p
	}
	var wrapped struct {
		Product *entity.Product `json:"product"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && wrapped.Product != nil && wrapped.Product.ID != "" {
		return wrapped.Product
	}
	return nil
}

// do performs one call. Non-2xx responses come back as
// *apierr.ResponseError; failures before a response as transport errors.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return apierr.FromTransport(err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Debug("backend_unreachable", "method", method, "path", path, "request_id", requestID, "error", err)
		return apierr.FromTransport(err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return apierr.FromTransport(fmt.Errorf("read %s %s: %w", method, path, err))
	}
	c.logger.Debug("backend_request",
		"method", method,
		"path", path,
		"status", res.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &apierr.ResponseError{Method: method, URL: target, StatusCode: res.StatusCode, Body: payload}
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = payload
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return apierr.FromTransport(fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}
