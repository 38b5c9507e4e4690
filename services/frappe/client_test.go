// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package frappe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// newTestClient builds a client against a test server with session auth.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	cfg := DefaultClientConfig()
	cfg.BaseURL = srv.URL
	cfg.SessionID = "test-sid"
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestListResource_QueryShapingAndEnvelope(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"source_name":"Website","name":"CRM-LSRC-001"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	rows, err := client.ListResource(context.Background(), "Lead Source", ListQuery{
		Fields:          []string{"source_name", "name"},
		OrderBy:         "modified desc",
		LimitStart:      0,
		LimitPageLength: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/resource/Lead%20Source" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if got := gotQuery.Get("fields"); got != `["source_name","name"]` {
		t.Errorf("fields not JSON-encoded, got %q", got)
	}
	if got := gotQuery.Get("order_by"); got != "modified desc" {
		t.Errorf("order_by = %q", got)
	}
	if got := gotQuery.Get("limit_page_length"); got != "20" {
		t.Errorf("limit_page_length = %q", got)
	}
	if len(rows) != 1 || rows[0]["source_name"] != "Website" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestMethodPost_MessageEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/method/frappe.desk.search.search_link" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %q", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":[{"value":"Tower A - Floor 2"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	var out []struct {
		Value string `json:"value"`
	}
	err := client.MethodPost(context.Background(), "frappe.desk.search.search_link",
		map[string]any{"doctype": "Lead", "txt": ""}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Value != "Tower A - Floor 2" {
		t.Errorf("unexpected payload: %v", out)
	}
}

func TestDo_ErrorBodyBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"exc_type":"DoesNotExistError","message":"DocType Building & Location not found"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.ListResource(context.Background(), "Building & Location", ListQuery{})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "DocType Building & Location not found" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if !IsDoctypeMissing(err) {
		t.Error("expected IsDoctypeMissing to recognize the message")
	}
}

func TestDo_NonJSONErrorBodyKeptAsSnippet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream exploded</html>"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.ListResource(context.Background(), "Lead", ListQuery{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "<html>upstream exploded</html>" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if IsDoctypeMissing(err) {
		t.Error("HTML error should not classify as doctype-missing")
	}
}

func TestSessionCookieAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("sid")
		if err != nil || cookie.Value != "test-sid" {
			t.Errorf("sid cookie missing or wrong: %v", err)
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	if _, err := client.ListResource(context.Background(), "Lead", ListQuery{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTokenCredentialsHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "token api-key:api-secret" {
			t.Errorf("Authorization = %q", got)
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	cfg := DefaultClientConfig()
	cfg.BaseURL = srv.URL
	cfg.APIKey = "api-key"
	cfg.APISecret = "api-secret"
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.ListResource(context.Background(), "Lead", ListQuery{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestActive_ReflectsCredentialPresence(t *testing.T) {
	cfg := DefaultClientConfig()
	cfg.BaseURL = "https://crm.example.com"

	noCreds, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if active, _ := noCreds.Active(context.Background()); active {
		t.Error("expected inactive without credentials")
	}

	cfg.SessionID = "sid"
	withSession, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if active, _ := withSession.Active(context.Background()); !active {
		t.Error("expected active with session token")
	}
}

func TestNewClient_RejectsMissingBaseURL(t *testing.T) {
	if _, err := NewClient(DefaultClientConfig()); err == nil {
		t.Fatal("expected validation error for empty base URL")
	}
}

func TestIsDoctypeMissing_PlainErrors(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"DocType Service Type does not exist", true},
		{"doctype Lead Source not found", true},
		{"connection refused", false},
		{"", false},
	}
	for _, tc := range cases {
		got := tc.msg != "" && IsDoctypeMissing(errors.New(tc.msg))
		if got != tc.want {
			t.Errorf("IsDoctypeMissing(%q) = %v, want %v", tc.msg, got, tc.want)
		}
	}
}
