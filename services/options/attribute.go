// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package options implements the resilient attribute resolution engine:
// given a logical form attribute (lead source, lead status, building, ...),
// it discovers a list of valid display options from a backend whose
// doctypes, field names, and permission model vary across deployments.
//
// The engine runs an ordered chain of query strategies per attribute and
// short-circuits on the first tier that yields usable candidates. Raw rows
// are normalized against per-strategy field-candidate lists, labels are
// cleaned of internal identifiers and email tokens, duplicates removed, and
// foreign-key-looking identifiers optionally mapped to human names with at
// most two batched lookups. Nothing is cached between calls.
package options

import "fmt"

// Attribute names one logical form field the caller wants options for.
// The set is fixed at compile time; a logical attribute may map to zero,
// one, or several backend doctypes depending on deployment.
type Attribute string

const (
	AttributeLeadSource       Attribute = "lead_source"
	AttributeLeadStatus       Attribute = "lead_status"
	AttributeLeadType         Attribute = "lead_type"
	AttributeRequestType      Attribute = "request_type"
	AttributeServiceType      Attribute = "service_type"
	AttributeLeadOwner        Attribute = "lead_owner"
	AttributeAssociateDetails Attribute = "associate_details"
	AttributeBuildingLocation Attribute = "building_location"
)

// attributeNames maps each attribute to the plural human name used in
// chain-exhaustion messages ("No lead sources found.").
var attributeNames = map[Attribute]string{
	AttributeLeadSource:       "lead sources",
	AttributeLeadStatus:       "lead statuses",
	AttributeLeadType:         "lead types",
	AttributeRequestType:      "request types",
	AttributeServiceType:      "service types",
	AttributeLeadOwner:        "lead owners",
	AttributeAssociateDetails: "associate details",
	AttributeBuildingLocation: "building locations",
}

// Attributes returns every logical attribute in stable order.
func Attributes() []Attribute {
	return []Attribute{
		AttributeLeadSource,
		AttributeLeadStatus,
		AttributeLeadType,
		AttributeRequestType,
		AttributeServiceType,
		AttributeLeadOwner,
		AttributeAssociateDetails,
		AttributeBuildingLocation,
	}
}

// ParseAttribute maps a wire name (e.g. "lead_source") to its Attribute.
func ParseAttribute(name string) (Attribute, error) {
	attr := Attribute(name)
	if _, ok := attributeNames[attr]; !ok {
		return "", fmt.Errorf("unknown attribute %q", name)
	}
	return attr, nil
}

// DisplayName returns the plural human-readable name of the attribute.
func (a Attribute) DisplayName() string {
	if name, ok := attributeNames[a]; ok {
		return name
	}
	return string(a)
}
