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

import "testing"

func TestChainFor_EveryAttributeHasAChainEndingInDerive(t *testing.T) {
	cfg := DefaultEngineConfig()
	for _, attr := range Attributes() {
		plan := chainFor(attr, cfg)
		if len(plan.strategies) == 0 {
			t.Errorf("%s: empty chain", attr)
			continue
		}
		last := plan.strategies[len(plan.strategies)-1]
		if last.Kind != KindDeriveFromLeads {
			t.Errorf("%s: last tier is %s, want derive_from_leads", attr, last.Kind)
		}
		for i, s := range plan.strategies[:len(plan.strategies)-1] {
			if s.Kind == KindDeriveFromLeads {
				t.Errorf("%s: derive tier at position %d, must be last", attr, i)
			}
		}
	}
}

func TestChainFor_OnlyLeadTypeCarriesDefaults(t *testing.T) {
	cfg := DefaultEngineConfig()
	for _, attr := range Attributes() {
		plan := chainFor(attr, cfg)
		hasDefaults := len(plan.defaults) > 0
		if (attr == AttributeLeadType) != hasDefaults {
			t.Errorf("%s: defaults present = %v", attr, hasDefaults)
		}
	}
}

func TestChainFor_ReferenceChainsMarked(t *testing.T) {
	cfg := DefaultEngineConfig()
	wantRefs := map[Attribute]bool{
		AttributeLeadOwner:        true,
		AttributeAssociateDetails: true,
	}
	for _, attr := range Attributes() {
		plan := chainFor(attr, cfg)
		if plan.resolveRefs != wantRefs[attr] {
			t.Errorf("%s: resolveRefs = %v, want %v", attr, plan.resolveRefs, wantRefs[attr])
		}
	}
}

func TestChainFor_UnknownAttributeIsEmpty(t *testing.T) {
	plan := chainFor(Attribute("bogus"), DefaultEngineConfig())
	if len(plan.strategies) != 0 {
		t.Errorf("unknown attribute produced %d strategies", len(plan.strategies))
	}
}

func TestChainFor_MetaTiersNameTheirField(t *testing.T) {
	cfg := DefaultEngineConfig()
	for _, attr := range Attributes() {
		for _, s := range chainFor(attr, cfg).strategies {
			if s.Kind == KindRPCMeta && (s.Doctype == "" || s.MetaField == "") {
				t.Errorf("%s: meta tier missing doctype or field: %+v", attr, s)
			}
			if s.Kind != KindRPCMeta && s.MetaField != "" {
				t.Errorf("%s: non-meta tier carries MetaField: %+v", attr, s)
			}
		}
	}
}
