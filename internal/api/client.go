// Package api is the REST client for the registrar backend. Each resource is
// exposed as a query.Resource so screens do not care whether they talk to
// the network or to the local store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vburojevic/registrar/internal/models"
	"github.com/vburojevic/registrar/internal/query"
)

// TenantHeader carries the tenant on every request.
const TenantHeader = "X-Tenant-ID"

// BasePath prefixes every resource path.
const BasePath = "/api/v1"

// Error codes shared with the server.
const (
	CodeBadRequest       = "bad_request"
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodeValidationFailed = "validation_failed"
	CodeInternal         = "internal"
	CodeRateLimited      = "rate_limited"
)

// Error is a non-2xx response decoded from the {message, code, meta}
// envelope. For validation failures Meta maps field names to problems.
type Error struct {
	Status  int               `json:"-"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %s (%d)", e.Message, e.Status)
}

// Is makes errors.Is(err, query.ErrNotFound) hold for 404 responses.
func (e *Error) Is(target error) bool {
	return target == query.ErrNotFound && e.Status == http.StatusNotFound
}

// FieldErrors returns the per-field problems of a validation failure.
func (e *Error) FieldErrors() models.FieldErrors {
	if e.Code != CodeValidationFailed || len(e.Meta) == 0 {
		return nil
	}
	out := make(models.FieldErrors, len(e.Meta))
	for k, v := range e.Meta {
		out[k] = v
	}
	return out
}

// Client talks to one backend on behalf of one tenant.
type Client struct {
	base   *url.URL
	tenant string
	http   *http.Client
	log    logrus.FieldLogger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient parses base and returns a client for tenant.
func NewClient(base, tenant string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(base), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: scheme must be http or https", base)
	}
	if strings.TrimSpace(tenant) == "" {
		return nil, errors.New("api: tenant is required")
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	c := &Client{
		base:   u,
		tenant: tenant,
		http:   &http.Client{Timeout: 15 * time.Second},
		log:    l,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) Tenant() string { return c.tenant }

func (c *Client) endpoint(parts ...string) string {
	return c.base.JoinPath(append([]string{BasePath}, parts...)...).String()
}

// do sends a request and decodes a JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(TenantHeader, c.tenant)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     req.URL.Path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if len(bytes.TrimSpace(b)) > 0 {
		if err := json.Unmarshal(b, apiErr); err != nil {
			apiErr.Message = strings.TrimSpace(string(b))
		}
	}
	return apiErr
}

// Resource is a query.Resource backed by /api/v1/<name>.
type Resource[T any] struct {
	c    *Client
	name string
}

// NewResource binds the collection name, e.g. "members".
func NewResource[T any](c *Client, name string) *Resource[T] {
	return &Resource[T]{c: c, name: name}
}

var _ query.Resource[models.Member] = (*Resource[models.Member])(nil)

func (r *Resource[T]) List(ctx context.Context, p query.Params) (query.Page[T], error) {
	var page query.Page[T]
	target := r.c.endpoint(r.name) + "?" + p.Values().Encode()
	if err := r.c.do(ctx, http.MethodGet, target, nil, &page); err != nil {
		return query.Page[T]{}, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

func (r *Resource[T]) Get(ctx context.Context, key string) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodGet, r.c.endpoint(r.name, key), nil, &out)
	return out, err
}

func (r *Resource[T]) Create(ctx context.Context, item T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.c.endpoint(r.name), item, &out)
	return out, err
}

// Update sends item to the record named by its key. T must expose the key
// through Key() string.
func (r *Resource[T]) Update(ctx context.Context, item T) (T, error) {
	var out T
	k, ok := any(item).(interface{ Key() string })
	if !ok || k.Key() == "" {
		return out, errors.New("api: update needs a keyed record")
	}
	err := r.c.do(ctx, http.MethodPut, r.c.endpoint(r.name, k.Key()), item, &out)
	return out, err
}

func (r *Resource[T]) Delete(ctx context.Context, key string) error {
	return r.c.do(ctx, http.MethodDelete, r.c.endpoint(r.name, key), nil, nil)
}
