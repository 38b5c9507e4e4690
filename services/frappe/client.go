// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package frappe is the transport adapter for Frappe-style document-store
// backends: resource CRUD endpoints addressed by doctype name plus generic
// RPC "method" endpoints. It owns URL shaping, auth-header selection, and
// error-envelope parsing; it knows nothing about logical form attributes.
package frappe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	resourcePathPrefix = "/api/resource/"
	methodPathPrefix   = "/api/method/"

	// maxErrorBodySnippet bounds how much of a non-JSON error body is kept.
	maxErrorBodySnippet = 512
)

var clientTracer = otel.Tracer("crmbridge.frappe")

// Doer abstracts the underlying HTTP client so tests can substitute one.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to one backend deployment.
//
// Description:
//
//	Client is deliberately thin: every call returns either decoded JSON or
//	an *APIError carrying the backend's message text. It never retries and
//	never interprets failures — tier selection and fallback live in the
//	resolution engine, which classifies errors purely by message shape.
//
// Thread Safety: Safe for concurrent use; all fields are read-only after construction.
type Client struct {
	baseURL   *url.URL
	http      Doer
	creds     CredentialProvider
	userAgent string
	logger    *slog.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient substitutes the HTTP transport. Nil is ignored.
func WithHTTPClient(d Doer) ClientOption {
	return func(c *Client) {
		if d != nil {
			c.http = d
		}
	}
}

// WithLogger substitutes the logger. Nil is ignored.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCredentials substitutes the credential provider. Nil is ignored.
func WithCredentials(p CredentialProvider) ClientOption {
	return func(c *Client) {
		if p != nil {
			c.creds = p
		}
	}
}

// NewClient builds a Client from configuration.
//
// Inputs:
//
//	cfg  - Validated configuration. BaseURL must parse.
//	opts - Optional overrides (HTTP client, logger, credentials).
//
// Outputs:
//
//	*Client - The constructed client.
//	error   - Non-nil if cfg.BaseURL does not parse or validation fails.
func NewClient(cfg ClientConfig, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}

	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: cfg.Timeout},
		creds:     CredentialsFromConfig(cfg),
		userAgent: cfg.UserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Active reports whether a usable credential is present. It satisfies the
// resolution engine's session-presence precondition and performs no network
// call: presence, not validity, is the contract.
func (c *Client) Active(_ context.Context) (bool, error) {
	return c.creds.Present(), nil
}

// ListQuery shapes a list-documents call.
type ListQuery struct {
	// Fields are the row properties to request. "name" is always worth
	// including; the normalizer uses it as a last-resort candidate.
	Fields []string

	// Filters uses the backend's triplet syntax, e.g.
	// [["name", "in", ["HR-EMP-0007"]]].
	Filters [][]any

	// OrderBy is the sort clause, e.g. "modified desc".
	OrderBy string

	// LimitStart / LimitPageLength paginate the result window.
	LimitStart      int
	LimitPageLength int
}

// values encodes the query the way both the resource endpoint and the
// get_list RPC expect it: fields and filters as JSON arrays.
func (q ListQuery) values() (url.Values, error) {
	v := url.Values{}
	if len(q.Fields) > 0 {
		encoded, err := json.Marshal(q.Fields)
		if err != nil {
			return nil, fmt.Errorf("encoding fields: %w", err)
		}
		v.Set("fields", string(encoded))
	}
	if len(q.Filters) > 0 {
		encoded, err := json.Marshal(q.Filters)
		if err != nil {
			return nil, fmt.Errorf("encoding filters: %w", err)
		}
		v.Set("filters", string(encoded))
	}
	if q.OrderBy != "" {
		v.Set("order_by", q.OrderBy)
	}
	v.Set("limit_start", strconv.Itoa(q.LimitStart))
	if q.LimitPageLength > 0 {
		v.Set("limit_page_length", strconv.Itoa(q.LimitPageLength))
	}
	return v, nil
}

// ListResource lists documents of a doctype through the resource endpoint.
//
// Description:
//
//	GET {base}/api/resource/{doctype} with fields, order_by, and pagination
//	query parameters. The success envelope is {"data": [...]}.
//
// Outputs:
//
//	[]map[string]any - Raw rows, opaque beyond the requested field names.
//	error            - *APIError on non-2xx, or a transport/decoding error.
func (c *Client) ListResource(ctx context.Context, doctype string, q ListQuery) ([]map[string]any, error) {
	query, err := q.values()
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodGet, resourcePathPrefix+url.PathEscape(doctype), query, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding resource envelope for %s: %w", doctype, err)
	}
	return envelope.Data, nil
}

// MethodGet calls an RPC method with query parameters and decodes the
// {"message": ...} envelope into out. Pass nil out to discard the payload.
func (c *Client) MethodGet(ctx context.Context, method string, params url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, methodPathPrefix+method, params, nil)
	if err != nil {
		return err
	}
	return decodeMessage(body, method, out)
}

// MethodPost calls an RPC method with a JSON body and decodes the
// {"message": ...} envelope into out. Pass nil out to discard the payload.
func (c *Client) MethodPost(ctx context.Context, method string, payload any, out any) error {
	body, err := c.do(ctx, http.MethodPost, methodPathPrefix+method, nil, payload)
	if err != nil {
		return err
	}
	return decodeMessage(body, method, out)
}

// decodeMessage unwraps the RPC success envelope.
func decodeMessage(body []byte, method string, out any) error {
	if out == nil {
		return nil
	}
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decoding method envelope for %s: %w", method, err)
	}
	if len(envelope.Message) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Message, out); err != nil {
		return fmt.Errorf("decoding message payload for %s: %w", method, err)
	}
	return nil
}

// do issues one HTTP request and returns the raw body on 2xx or an
// *APIError otherwise. All requests flow through here so auth, tracing,
// and error parsing happen exactly once.
func (c *Client) do(ctx context.Context, httpMethod, path string, query url.Values, payload any) ([]byte, error) {
	ctx, span := clientTracer.Start(ctx, "frappe.request")
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", httpMethod),
		attribute.String("backend.path", path),
	)

	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.creds.Apply(req); err != nil {
		return nil, fmt.Errorf("attaching credentials: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseErrorBody(resp.StatusCode, body)
		span.SetStatus(codes.Error, apiErr.Message)
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		c.logger.Debug("backend request failed",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	return body, nil
}

// parseErrorBody extracts the most useful message text from an error body.
// Frappe deployments vary: some return {"message": ...}, some
// {"exception": ...} or {"exc_type": ...}, and misconfigured ones return
// HTML. The raw text is the lowest common denominator.
func parseErrorBody(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var structured struct {
		Message   string `json:"message"`
		Exception string `json:"exception"`
		ExcType   string `json:"exc_type"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		apiErr.ExcType = structured.ExcType
		switch {
		case structured.Message != "":
			apiErr.Message = structured.Message
		case structured.Exception != "":
			apiErr.Message = structured.Exception
		}
	}

	if apiErr.Message == "" {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBodySnippet {
			snippet = snippet[:maxErrorBodySnippet]
		}
		if snippet == "" {
			snippet = http.StatusText(status)
		}
		apiErr.Message = snippet
	}
	return apiErr
}
