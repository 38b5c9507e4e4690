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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultEngineConfig(t *testing.T) {
	cfg := DefaultEngineConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, []string{"Client", "Channel Partner", "Consultant"}, cfg.LeadTypeDefaults)
	assert.Equal(t, []string{"CRM-LEAD", "HR-EMP"}, cfg.IdentifierPrefixes)
}

func TestLoadEngineConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CRMBRIDGE_PAGE_SIZE", "50")
	t.Setenv("CRMBRIDGE_LEAD_TYPE_DEFAULTS", "Tenant, Landlord")
	t.Setenv("CRMBRIDGE_ID_PREFIXES", "CRM-LEAD")

	cfg := LoadEngineConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, []string{"Tenant", "Landlord"}, cfg.LeadTypeDefaults)
	assert.Equal(t, []string{"CRM-LEAD"}, cfg.IdentifierPrefixes)
}

func TestLoadEngineConfig_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("CRMBRIDGE_PAGE_SIZE", "not-a-number")
	t.Setenv("CRMBRIDGE_LEAD_TYPE_DEFAULTS", " , ,")

	cfg := LoadEngineConfig()

	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, DefaultEngineConfig().LeadTypeDefaults, cfg.LeadTypeDefaults)
}

func TestEngineConfig_ValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.PageSize = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultEngineConfig()
	cfg.LeadTypeDefaults = nil
	assert.Error(t, cfg.Validate())

	cfg = DefaultEngineConfig()
	cfg.IdentifierPrefixes = []string{""}
	assert.Error(t, cfg.Validate())
}
