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
	"context"
	"log/slog"
	"strings"
)

// PrefixFamily binds one identifier prefix to the doctype that can explain
// it and the fields that hold a human-readable name, most preferred first.
type PrefixFamily struct {
	Prefix        string
	Doctype       string
	DisplayFields []string
}

// defaultPrefixFamilies covers the two identifier families the backends
// hand out in lead forms: employee codes and lead codes.
func defaultPrefixFamilies() []PrefixFamily {
	return []PrefixFamily{
		{Prefix: "HR-EMP", Doctype: "Employee", DisplayFields: []string{"employee_name"}},
		{Prefix: "CRM-LEAD", Doctype: "Lead", DisplayFields: []string{"lead_name", "company_name"}},
	}
}

// NameResolver maps opaque record identifiers to display names.
//
// Description:
//
//	Candidates sometimes arrive as foreign-key-like codes ("HR-EMP-0007")
//	instead of names. The resolver partitions identifiers by prefix family
//	and issues exactly one batched name-in lookup per non-empty family —
//	at most len(families) network calls per resolution regardless of how
//	many identifiers were supplied. A missing mapping is a normal outcome,
//	not a failure: callers keep the original identifier.
//
// Thread Safety: Safe for concurrent use; all fields are read-only after construction.
type NameResolver struct {
	transport Transport
	families  []PrefixFamily
	logger    *slog.Logger
}

// NewNameResolver builds a resolver over the default prefix families.
func NewNameResolver(t Transport, logger *slog.Logger) *NameResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &NameResolver{
		transport: t,
		families:  defaultPrefixFamilies(),
		logger:    logger,
	}
}

// ResolveNames returns an identifier→name map for every identifier a batch
// lookup could explain. Identifiers with no recognized prefix, and
// identifiers the backend returned no row for, are simply absent.
func (r *NameResolver) ResolveNames(ctx context.Context, identifiers []string) map[string]string {
	resolved := make(map[string]string)
	if len(identifiers) == 0 {
		return resolved
	}

	for _, family := range r.families {
		batch := partition(identifiers, family.Prefix)
		if len(batch) == 0 {
			continue
		}

		var rows []map[string]any
		fields := append([]string{"name"}, family.DisplayFields...)
		err := r.transport.MethodPost(ctx, "frappe.client.get_list", map[string]any{
			"doctype":           family.Doctype,
			"fields":            fields,
			"filters":           [][]any{{"name", "in", batch}},
			"limit_page_length": len(batch),
		}, &rows)
		if err != nil {
			// Partial misses are expected; a failed batch just means these
			// identifiers stay as-is.
			r.logger.Warn("cross-reference batch lookup failed",
				slog.String("doctype", family.Doctype),
				slog.Int("identifiers", len(batch)),
				slog.String("error", err.Error()),
			)
			continue
		}

		for _, row := range rows {
			id := stringField(row, "name")
			if id == "" {
				continue
			}
			if display := firstCandidate(row, family.DisplayFields); display != "" {
				resolved[id] = display
			}
		}
	}
	return resolved
}

// partition keeps the identifiers belonging to one prefix family,
// preserving order and dropping duplicates.
func partition(identifiers []string, prefix string) []string {
	seen := make(map[string]struct{}, len(identifiers))
	var batch []string
	for _, id := range identifiers {
		if !strings.HasPrefix(id, prefix+"-") {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		batch = append(batch, id)
	}
	return batch
}
