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
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

// ClientConfig holds configuration for a backend Client.
//
// Description:
//
//	Loaded from environment variables at startup via LoadClientConfig().
//	Exactly one credential source should be populated: a session ID (mobile
//	app flow, cookie-based) or an API key/secret pair (sidecar flow,
//	token-based). When both are set the session ID wins, matching the
//	backend's own precedence.
//
// Thread Safety: ClientConfig is a value type. Safe to copy and share after loading.
type ClientConfig struct {
	// BaseURL is the backend origin, e.g. "https://crm.example.com".
	// Env: CRMBRIDGE_BASE_URL
	BaseURL string `validate:"required,url"`

	// SessionID is an opaque session token obtained by the (out of scope)
	// login flow. Sent as the "sid" cookie when non-empty.
	// Env: CRMBRIDGE_SESSION_ID (default: "")
	SessionID string

	// APIKey and APISecret form the token credential pair.
	// Env: CRMBRIDGE_API_KEY, CRMBRIDGE_API_SECRET (default: "")
	APIKey    string
	APISecret string

	// Timeout bounds every HTTP request. Cancellation beyond this is the
	// caller's job via context.
	// Env: CRMBRIDGE_HTTP_TIMEOUT (default: 15s)
	Timeout time.Duration `validate:"gt=0"`

	// UserAgent is sent with every request.
	// Env: CRMBRIDGE_USER_AGENT (default: "crmbridge/1.0")
	UserAgent string `validate:"required"`
}

// DefaultClientConfig returns a ClientConfig with safe defaults and no
// base URL. Callers must set BaseURL before Validate passes.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:   15 * time.Second,
		UserAgent: "crmbridge/1.0",
	}
}

// LoadClientConfig reads client configuration from CRMBRIDGE_* environment
// variables, applying defaults for everything except the base URL.
func LoadClientConfig() ClientConfig {
	cfg := DefaultClientConfig()
	cfg.BaseURL = os.Getenv("CRMBRIDGE_BASE_URL")
	cfg.SessionID = os.Getenv("CRMBRIDGE_SESSION_ID")
	cfg.APIKey = os.Getenv("CRMBRIDGE_API_KEY")
	cfg.APISecret = os.Getenv("CRMBRIDGE_API_SECRET")
	cfg.Timeout = envDuration("CRMBRIDGE_HTTP_TIMEOUT", cfg.Timeout)
	if ua := os.Getenv("CRMBRIDGE_USER_AGENT"); ua != "" {
		cfg.UserAgent = ua
	}
	return cfg
}

// Validate checks structural constraints on the configuration.
func (c ClientConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}
	return nil
}

// validate is the shared validator instance for this package.
var validate = validator.New(validator.WithRequiredStructEnabled())

// envDuration reads a duration environment variable with a default value.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
