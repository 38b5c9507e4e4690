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

import "context"

// Per-attribute entry points for form screens. Each is sugar over Resolve
// with the attribute pinned; limit <= 0 means the engine default page size.

// LeadSources resolves the lead source dropdown.
func (e *Engine) LeadSources(ctx context.Context, limit int) Result {
	return e.Resolve(ctx, AttributeLeadSource, Query{Limit: limit})
}

// LeadStatuses resolves the lead status dropdown.
func (e *Engine) LeadStatuses(ctx context.Context, limit int) Result {
	return e.Resolve(ctx, AttributeLeadStatus, Query{Limit: limit})
}

// LeadTypes resolves the lead type dropdown. This is the one attribute that
// degrades to configured defaults instead of failing on chain exhaustion.
func (e *Engine) LeadTypes(ctx context.Context, limit int) Result {
	return e.Resolve(ctx, AttributeLeadType, Query{Limit: limit})
}

// RequestTypes resolves the request type dropdown.
func (e *Engine) RequestTypes(ctx context.Context, limit int) Result {
	return e.Resolve(ctx, AttributeRequestType, Query{Limit: limit})
}

// ServiceTypes resolves the service type dropdown.
func (e *Engine) ServiceTypes(ctx context.Context, limit int) Result {
	return e.Resolve(ctx, AttributeServiceType, Query{Limit: limit})
}

// LeadOwners resolves the lead owner dropdown as labeled options: the value
// is the persisted user identifier, the label "Full Name (identifier)".
func (e *Engine) LeadOwners(ctx context.Context, limit int) Result {
	return e.Resolve(ctx, AttributeLeadOwner, Query{Limit: limit})
}

// Associates resolves the associate/employee dropdown, mapping employee
// codes to names where the backend can explain them.
func (e *Engine) Associates(ctx context.Context, limit int) Result {
	return e.Resolve(ctx, AttributeAssociateDetails, Query{Limit: limit})
}

// BuildingLocations resolves the building/location dropdown.
func (e *Engine) BuildingLocations(ctx context.Context, limit int) Result {
	return e.Resolve(ctx, AttributeBuildingLocation, Query{Limit: limit})
}
