// Package upload publishes a harness to the remote harness service.
//
// The harness is validated and serialized locally, then POSTed as
//
//	{"name": ..., "description": ..., "bom": {...}, "data": {...}, "is_public": false}
//
// to <BaseURL>/api/v1/harnesses with a bearer API key. Uploads are one-shot:
// failures are returned to the caller and never retried.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/export"
	"github.com/matzehuels/harnesskit/pkg/harness"
	"github.com/matzehuels/harnesskit/pkg/observability"
	"github.com/matzehuels/harnesskit/pkg/validate"
)

// DefaultBaseURL is the public harness service.
const DefaultBaseURL = "https://splice-cad.com"

const (
	createPath  = "/api/v1/harnesses"
	httpTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 4096
)

// Client uploads harnesses to the remote service.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another service instance.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client authenticating with apiKey.
// An empty key is UNAUTHORIZED; a malformed base URL is INVALID_INPUT.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: httpTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "an API key is required to upload")
	}
	if err := errors.ValidateURL(c.baseURL); err != nil {
		return nil, err
	}
	return c, nil
}

// Created is the service's description of a newly created harness.
type Created struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_id"`
	CreatedAt string `json:"created_at"`
}

// payload is the request body.
type payload struct {
	Name        string                                         `json:"name"`
	Description *string                                        `json:"description"`
	BOM         *orderedmap.OrderedMap[string, export.BOMItem] `json:"bom"`
	Data        export.Data                                    `json:"data"`
	IsPublic    bool                                           `json:"is_public"`
}

// newPayload builds the request body for h. An empty description is sent as
// null.
func newPayload(h *harness.Harness, isPublic bool) (*payload, error) {
	doc, err := export.Serialize(h)
	if err != nil {
		return nil, err
	}
	p := &payload{
		Name:     h.Name(),
		BOM:      doc.BOM,
		Data:     doc.Data,
		IsPublic: isPublic,
	}
	if d := h.Description(); d != "" {
		p.Description = &d
	}
	return p, nil
}

// Upload validates h and creates it on the service.
//
// An invalid harness returns VALIDATION_FAILED without contacting the
// service. 401 and 403 responses are UNAUTHORIZED, any other non-2xx status
// or transport failure is NETWORK_ERROR. Status errors wrap an
// *errors.RemoteError carrying the response body.
func (c *Client) Upload(ctx context.Context, h *harness.Harness, isPublic bool) (*Created, error) {
	if err := validate.Validate(h).Err(); err != nil {
		return nil, err
	}
	p, err := newPayload(h, isPublic)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	endpoint := c.baseURL + createPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	host, path := hostPath(endpoint)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodPost, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodPost, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "upload %q", h.Name())
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodPost, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var created Created
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode response")
	}
	return &created, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	remote := &errors.RemoteError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Wrap(errors.ErrCodeUnauthorized, remote, "upload rejected, check the API key")
	default:
		return errors.Wrap(errors.ErrCodeNetwork, remote, "upload failed")
	}
}

func hostPath(endpoint string) (string, string) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", endpoint
	}
	return u.Host, u.Path
}
