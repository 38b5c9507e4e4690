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
	"fmt"
	"net/http"

	"github.com/awnumar/memguard"
)

// CredentialProvider attaches authentication to outgoing requests and
// answers the session-presence precondition.
//
// Description:
//
//	The resolution engine never inspects credentials; it only asks whether
//	a usable session exists before issuing network calls. Providers own the
//	choice between cookie-based session auth and API token auth, which
//	varies per deployment and permission model.
//
// Thread Safety: Implementations must be safe for concurrent use.
type CredentialProvider interface {
	// Apply attaches credentials to the request.
	Apply(req *http.Request) error

	// Present reports whether credentials exist at all. A false value is a
	// hard precondition failure for the resolution engine, surfaced to the
	// user before any network traffic.
	Present() bool
}

// SessionCredentials authenticates with the backend's "sid" session cookie.
type SessionCredentials struct {
	sid string
}

// NewSessionCredentials wraps an opaque session token. The token is assumed
// to have been obtained by the login flow, which is out of scope here.
func NewSessionCredentials(sid string) *SessionCredentials {
	return &SessionCredentials{sid: sid}
}

// Apply sets the session cookie.
func (s *SessionCredentials) Apply(req *http.Request) error {
	if s.sid == "" {
		return fmt.Errorf("no session token")
	}
	req.AddCookie(&http.Cookie{Name: "sid", Value: s.sid})
	return nil
}

// Present reports whether a session token is held.
func (s *SessionCredentials) Present() bool {
	return s.sid != ""
}

// TokenCredentials authenticates with an API key/secret pair using the
// backend's "token key:secret" Authorization scheme.
//
// The secret is sealed in a memguard enclave at construction and only
// decrypted for the instant the Authorization header is built, so it never
// sits in plain heap memory between requests.
type TokenCredentials struct {
	key    string
	secret *memguard.Enclave
}

// NewTokenCredentials seals the secret and returns a provider. The caller's
// plaintext copy should be discarded promptly; memguard wipes the buffer it
// is given.
func NewTokenCredentials(key, secret string) *TokenCredentials {
	return &TokenCredentials{
		key:    key,
		secret: memguard.NewEnclave([]byte(secret)),
	}
}

// Apply sets the Authorization header from the sealed secret.
func (t *TokenCredentials) Apply(req *http.Request) error {
	if !t.Present() {
		return fmt.Errorf("no API credentials")
	}
	buf, err := t.secret.Open()
	if err != nil {
		return fmt.Errorf("failed to open credential enclave: %w", err)
	}
	defer buf.Destroy()
	req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", t.key, buf.String()))
	return nil
}

// Present reports whether both key and secret are held.
func (t *TokenCredentials) Present() bool {
	return t.key != "" && t.secret != nil
}

// NoCredentials is the absent-session provider. Every request fails locally
// and Present reports false, which the engine turns into its precondition
// error without touching the network.
type NoCredentials struct{}

// Apply always fails.
func (NoCredentials) Apply(_ *http.Request) error {
	return fmt.Errorf("no credentials configured")
}

// Present always reports false.
func (NoCredentials) Present() bool {
	return false
}

// CredentialsFromConfig selects a provider from the loaded configuration.
// Session tokens win over API tokens, matching backend precedence.
func CredentialsFromConfig(cfg ClientConfig) CredentialProvider {
	switch {
	case cfg.SessionID != "":
		return NewSessionCredentials(cfg.SessionID)
	case cfg.APIKey != "" && cfg.APISecret != "":
		return NewTokenCredentials(cfg.APIKey, cfg.APISecret)
	default:
		return NoCredentials{}
	}
}
