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

// chainPlan is everything the engine needs to resolve one attribute: the
// ordered strategy tiers, whether candidates may be opaque identifiers
// worth a cross-reference pass, and the exhaustion fallback (lead type
// only).
type chainPlan struct {
	strategies []Strategy

	// resolveRefs defers label cleaning until after the cross-reference
	// pass so raw identifiers survive long enough to be mapped to names.
	resolveRefs bool

	// defaults, when non-empty, turn chain exhaustion into Ok with this
	// set instead of an error. Deployment-specific, not a product rule.
	defaults []string
}

// chainFor returns the strategy chain for an attribute.
//
// Description:
//
//	This table is the whole fallback policy: reordering tiers or teaching
//	the engine a new attribute is a data change here, not new control flow.
//	Every chain ends in a derive-from-leads tier — when no dedicated
//	doctype exists anywhere, values observed on existing Lead records are
//	the only remaining source of truth.
func chainFor(attr Attribute, cfg EngineConfig) chainPlan {
	switch attr {
	case AttributeLeadSource:
		return chainPlan{strategies: []Strategy{
			{Kind: KindResourceRead, Doctype: "Lead Source", FieldCandidates: []string{"source_name", "lead_source_name"}},
			{Kind: KindRPCList, Doctype: "Lead Source", FieldCandidates: []string{"source_name", "lead_source_name"}},
			{Kind: KindRPCMeta, Doctype: "Lead", MetaField: "source", FieldCandidates: []string{"source_name"}},
			{Kind: KindSearchLink, Doctype: "Lead Source"},
			{Kind: KindDeriveFromLeads, FieldCandidates: []string{"source", "lead_source"}},
		}}

	case AttributeLeadStatus:
		return chainPlan{strategies: []Strategy{
			{Kind: KindRPCMeta, Doctype: "Lead", MetaField: "status", FieldCandidates: []string{"status_name"}},
			{Kind: KindResourceRead, Doctype: "Lead Status", FieldCandidates: []string{"status_name", "lead_status"}},
			{Kind: KindRPCList, Doctype: "Lead Status", FieldCandidates: []string{"status_name", "lead_status"}},
			{Kind: KindDeriveFromLeads, FieldCandidates: []string{"status", "lead_status"}},
		}}

	case AttributeLeadType:
		return chainPlan{
			strategies: []Strategy{
				{Kind: KindResourceRead, Doctype: "Lead Type", FieldCandidates: []string{"type_name", "lead_type_name"}},
				{Kind: KindRPCList, Doctype: "Lead Type", FieldCandidates: []string{"type_name", "lead_type_name"}},
				{Kind: KindRPCMeta, Doctype: "Lead", MetaField: "type", FieldCandidates: []string{"type_name"}},
				{Kind: KindDeriveFromLeads, FieldCandidates: []string{"type", "lead_type"}},
			},
			defaults: cfg.LeadTypeDefaults,
		}

	case AttributeRequestType:
		return chainPlan{strategies: []Strategy{
			{Kind: KindResourceRead, Doctype: "Request Type", FieldCandidates: []string{"request_type", "type_name"}},
			{Kind: KindRPCList, Doctype: "Request Type", FieldCandidates: []string{"request_type", "type_name"}},
			{Kind: KindRPCMeta, Doctype: "Lead", MetaField: "request_type", FieldCandidates: []string{"request_type"}},
			{Kind: KindSearchLink, Doctype: "Request Type"},
			{Kind: KindDeriveFromLeads, FieldCandidates: []string{"request_type"}},
		}}

	case AttributeServiceType:
		return chainPlan{strategies: []Strategy{
			{Kind: KindResourceRead, Doctype: "Service Type", FieldCandidates: []string{"service_type", "service_name", "type_name"}},
			{Kind: KindRPCList, Doctype: "Service Type", FieldCandidates: []string{"service_type", "service_name", "type_name"}},
			{Kind: KindRPCMeta, Doctype: "Lead", MetaField: "service_type", FieldCandidates: []string{"service_type"}},
			{Kind: KindSearchLink, Doctype: "Service Type"},
			{Kind: KindDeriveFromLeads, FieldCandidates: []string{"service_type"}},
		}}

	case AttributeLeadOwner:
		// Owners persist as user identifiers; the dropdown shows
		// "Full Name (identifier)".
		return chainPlan{
			strategies: []Strategy{
				{Kind: KindResourceRead, Doctype: "User", FieldCandidates: []string{"full_name"}, ValueField: "name", LabelField: "full_name"},
				{Kind: KindRPCList, Doctype: "User", FieldCandidates: []string{"full_name"}, ValueField: "name", LabelField: "full_name"},
				{Kind: KindDeriveFromLeads, FieldCandidates: []string{"lead_owner", "owner"}},
			},
			resolveRefs: true,
		}

	case AttributeAssociateDetails:
		// Associates surface as employee codes in several deployments;
		// the cross-reference pass maps codes to employee names.
		return chainPlan{
			strategies: []Strategy{
				{Kind: KindResourceRead, Doctype: "Employee", FieldCandidates: []string{"employee_name", "associate_name"}},
				{Kind: KindRPCList, Doctype: "Employee", FieldCandidates: []string{"employee_name", "associate_name"}},
				{Kind: KindSearchLink, Doctype: "Employee"},
				{Kind: KindDeriveFromLeads, FieldCandidates: []string{"associate", "associate_details", "employee"}},
			},
			resolveRefs: true,
		}

	case AttributeBuildingLocation:
		return chainPlan{strategies: []Strategy{
			{Kind: KindResourceRead, Doctype: "Building & Location", FieldCandidates: []string{"building_name", "location_name", "address"}},
			{Kind: KindRPCList, Doctype: "Building & Location", FieldCandidates: []string{"building_name", "location_name", "address"}},
			{Kind: KindSearchLink, Doctype: "Building & Location"},
			{Kind: KindRPCMeta, Doctype: "Lead", MetaField: "building_location", FieldCandidates: []string{"building_name"}},
			{Kind: KindDeriveFromLeads, FieldCandidates: []string{"building_location", "building", "address"}},
		}}

	default:
		return chainPlan{}
	}
}
