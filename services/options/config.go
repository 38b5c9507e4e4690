// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package options

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EngineConfig holds deployment-tunable knobs for the resolution engine.
//
// Description:
//
//	Loaded from environment variables at startup via LoadEngineConfig().
//	The lead-type default set exists because some deployments ship without
//	any lead-type doctype at all and the UI must still render that dropdown;
//	it is deployment configuration, not a product rule, which is why it is
//	overridable here rather than hardcoded in the chain table.
//
// Thread Safety: EngineConfig is a value type. Safe to copy and share after loading.
type EngineConfig struct {
	// PageSize is the per-strategy page length for candidate queries.
	// Env: CRMBRIDGE_PAGE_SIZE (default: 20)
	PageSize int `validate:"gte=1,lte=500"`

	// LeadTypeDefaults is the fallback option set returned when every
	// lead-type strategy comes up empty.
	// Env: CRMBRIDGE_LEAD_TYPE_DEFAULTS (comma-separated,
	// default: "Client,Channel Partner,Consultant")
	LeadTypeDefaults []string `validate:"min=1,dive,required"`

	// IdentifierPrefixes are the internal record-number prefixes (the part
	// before the dash) that mark a string as an opaque backend identifier
	// rather than a display name.
	// Env: CRMBRIDGE_ID_PREFIXES (comma-separated, default: "CRM-LEAD,HR-EMP")
	IdentifierPrefixes []string `validate:"min=1,dive,required"`
}

// DefaultEngineConfig returns the configuration used when no environment
// overrides are present.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		PageSize:           20,
		LeadTypeDefaults:   []string{"Client", "Channel Partner", "Consultant"},
		IdentifierPrefixes: []string{"CRM-LEAD", "HR-EMP"},
	}
}

// LoadEngineConfig reads engine configuration from CRMBRIDGE_* environment
// variables with safe defaults.
func LoadEngineConfig() EngineConfig {
	cfg := DefaultEngineConfig()
	cfg.PageSize = envInt("CRMBRIDGE_PAGE_SIZE", cfg.PageSize)
	cfg.LeadTypeDefaults = envList("CRMBRIDGE_LEAD_TYPE_DEFAULTS", cfg.LeadTypeDefaults)
	cfg.IdentifierPrefixes = envList("CRMBRIDGE_ID_PREFIXES", cfg.IdentifierPrefixes)
	return cfg
}

// Validate checks structural constraints on the configuration.
func (c EngineConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}
	return nil
}

// validate is the shared validator instance for this package.
var validate = validator.New(validator.WithRequiredStructEnabled())

// envInt reads an integer environment variable with a default value.
func envInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// envList reads a comma-separated environment variable, trimming entries
// and dropping empties. Returns the default when unset or all-empty.
func envList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var items []string
	for _, item := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return defaultVal
	}
	return items
}
