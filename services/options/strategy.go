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
	"net/url"
	"strings"

	"github.com/AleutianAI/CRMBridge/services/frappe"
)

// Transport is the narrow slice of the backend client the engine consumes.
// *frappe.Client satisfies it; tests substitute struct mocks.
type Transport interface {
	ListResource(ctx context.Context, doctype string, q frappe.ListQuery) ([]map[string]any, error)
	MethodGet(ctx context.Context, method string, params url.Values, out any) error
	MethodPost(ctx context.Context, method string, payload any, out any) error
}

// Kind selects one fully-specified way of asking the backend for candidate
// rows. Strategies differ only in request shape; normalization downstream is
// shared.
type Kind int

const (
	// KindResourceRead lists documents through the REST resource endpoint.
	KindResourceRead Kind = iota

	// KindRPCList lists documents through the generic get_list RPC, used
	// when the resource endpoint is unavailable (permission model quirks).
	KindRPCList

	// KindRPCMeta reads the owning doctype's field metadata and parses the
	// field's options string: newline-delimited means a static Select
	// enumeration; a single line names a linked doctype to list instead.
	KindRPCMeta

	// KindSearchLink asks the link-field autocomplete RPC.
	KindSearchLink

	// KindDeriveFromLeads extracts the attribute's value from existing Lead
	// records; the last resort when no dedicated doctype exists at all.
	KindDeriveFromLeads
)

// String returns the metric/log label for the kind.
func (k Kind) String() string {
	switch k {
	case KindResourceRead:
		return "resource_read"
	case KindRPCList:
		return "rpc_list"
	case KindRPCMeta:
		return "rpc_meta"
	case KindSearchLink:
		return "search_link"
	case KindDeriveFromLeads:
		return "derive_from_leads"
	default:
		return "unknown"
	}
}

// Strategy is static per-attribute configuration: one tier of a chain.
// Adding a tier or reordering fallbacks is a data change in chains.go, not
// new control flow.
type Strategy struct {
	// Kind selects the request shape.
	Kind Kind

	// Doctype is the target: the doctype listed (ResourceRead/RPCList), the
	// doctype whose metadata is read (RPCMeta), or the reference doctype
	// offered to the autocomplete RPC (SearchLink). Unused for
	// DeriveFromLeads, which always targets Lead.
	Doctype string

	// MetaField is the field whose options string is parsed (RPCMeta only).
	MetaField string

	// FieldCandidates are the row properties to probe, most specific first.
	FieldCandidates []string

	// ValueField / LabelField mark a labeled strategy: the dropdown's
	// persisted value and visible text come from different properties
	// (e.g. lead owner: value "name", label "full_name").
	ValueField string
	LabelField string

	// PageSize overrides the engine-wide page size when > 0.
	PageSize int
}

// outcome is the explicit result state of one strategy attempt. The chain
// loop is a state transition over these — "try next on any failure" is a
// reviewable rule, not implicit exception suppression.
type outcome int

const (
	// outcomeCandidates: the strategy produced at least one usable option.
	outcomeCandidates outcome = iota

	// outcomeEmpty: the strategy ran but nothing normalized to a candidate.
	// Not an error; the next tier is tried.
	outcomeEmpty

	// outcomeDoctypeMissing: the backend lacks the target doctype. An
	// expected deployment variation, logged at debug.
	outcomeDoctypeMissing

	// outcomeTransportError: any other transport failure. Logged at warn,
	// never propagated; the next tier is tried.
	outcomeTransportError
)

// String returns the metric/log label for the outcome.
func (o outcome) String() string {
	switch o {
	case outcomeCandidates:
		return "candidates"
	case outcomeEmpty:
		return "empty"
	case outcomeDoctypeMissing:
		return "doctype_missing"
	case outcomeTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// strategyResult couples an outcome with its candidates or failure cause.
type strategyResult struct {
	outcome outcome
	options []Option
	err     error
}

// classifyFailure turns a transport error into the matching outcome.
func classifyFailure(err error) strategyResult {
	if frappe.IsDoctypeMissing(err) {
		return strategyResult{outcome: outcomeDoctypeMissing, err: err}
	}
	return strategyResult{outcome: outcomeTransportError, err: err}
}

// candidatesOrEmpty wraps normalized options in the right outcome.
func candidatesOrEmpty(opts []Option) strategyResult {
	if len(opts) == 0 {
		return strategyResult{outcome: outcomeEmpty}
	}
	return strategyResult{outcome: outcomeCandidates, options: opts}
}

// Query carries caller pagination. Zero values mean engine defaults.
type Query struct {
	Limit  int
	Offset int
}

// pageLength resolves the effective page size: caller limit, then strategy
// override, then engine default.
func pageLength(q Query, s Strategy, cfg EngineConfig) int {
	switch {
	case q.Limit > 0:
		return q.Limit
	case s.PageSize > 0:
		return s.PageSize
	default:
		return cfg.PageSize
	}
}

// executeStrategy runs one tier and never returns a Go error: every failure
// is folded into the outcome so the chain loop stays total.
func executeStrategy(ctx context.Context, t Transport, s Strategy, q Query, cfg EngineConfig, idp *IdentifierPatterns, logger *slog.Logger) strategyResult {
	switch s.Kind {
	case KindResourceRead:
		return runResourceRead(ctx, t, s, q, cfg, idp)
	case KindRPCList:
		return runRPCList(ctx, t, s, q, cfg, idp)
	case KindRPCMeta:
		return runRPCMeta(ctx, t, s, q, cfg, idp, logger)
	case KindSearchLink:
		return runSearchLink(ctx, t, s, q, cfg)
	case KindDeriveFromLeads:
		return runDeriveFromLeads(ctx, t, s, q, cfg, idp, logger)
	default:
		return strategyResult{outcome: outcomeEmpty}
	}
}

// listFields is the field set requested for row listings: the candidates
// plus "name", which doubles as the normalizer's last resort.
func listFields(s Strategy) []string {
	fields := make([]string, 0, len(s.FieldCandidates)+3)
	fields = append(fields, s.FieldCandidates...)
	if s.ValueField != "" {
		fields = append(fields, s.ValueField)
	}
	if s.LabelField != "" {
		fields = append(fields, s.LabelField)
	}
	for _, f := range fields {
		if f == "name" {
			return fields
		}
	}
	return append(fields, "name")
}

func runResourceRead(ctx context.Context, t Transport, s Strategy, q Query, cfg EngineConfig, idp *IdentifierPatterns) strategyResult {
	rows, err := t.ListResource(ctx, s.Doctype, frappe.ListQuery{
		Fields:          listFields(s),
		OrderBy:         "modified desc",
		LimitStart:      q.Offset,
		LimitPageLength: pageLength(q, s, cfg),
	})
	if err != nil {
		return classifyFailure(err)
	}
	return candidatesOrEmpty(normalizeRows(rows, s, idp))
}

func runRPCList(ctx context.Context, t Transport, s Strategy, q Query, cfg EngineConfig, idp *IdentifierPatterns) strategyResult {
	var rows []map[string]any
	err := t.MethodPost(ctx, "frappe.client.get_list", map[string]any{
		"doctype":           s.Doctype,
		"fields":            listFields(s),
		"order_by":          "modified desc",
		"limit_start":       q.Offset,
		"limit_page_length": pageLength(q, s, cfg),
	}, &rows)
	if err != nil {
		return classifyFailure(err)
	}
	return candidatesOrEmpty(normalizeRows(rows, s, idp))
}

// docTypeMeta is the slice of the form-definition document the meta
// strategy needs.
type docTypeMeta struct {
	Fields []struct {
		Fieldname string `json:"fieldname"`
		Fieldtype string `json:"fieldtype"`
		Options   string `json:"options"`
	} `json:"fields"`
}

func runRPCMeta(ctx context.Context, t Transport, s Strategy, q Query, cfg EngineConfig, idp *IdentifierPatterns, logger *slog.Logger) strategyResult {
	params := url.Values{}
	params.Set("doctype", "DocType")
	params.Set("name", s.Doctype)

	var meta docTypeMeta
	if err := t.MethodGet(ctx, "frappe.client.get", params, &meta); err != nil {
		return classifyFailure(err)
	}

	var optionsText string
	for _, field := range meta.Fields {
		if field.Fieldname == s.MetaField {
			optionsText = field.Options
			break
		}
	}
	optionsText = strings.TrimSpace(optionsText)
	if optionsText == "" {
		return strategyResult{outcome: outcomeEmpty}
	}

	// Line breaks mean a static Select enumeration; a single line names a
	// linked doctype whose documents hold the real candidates.
	if strings.Contains(optionsText, "\n") {
		var values []string
		for _, line := range strings.Split(optionsText, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		return candidatesOrEmpty(plainOptions(values))
	}

	linked := Strategy{
		Kind:            KindResourceRead,
		Doctype:         optionsText,
		FieldCandidates: s.FieldCandidates,
		PageSize:        s.PageSize,
	}
	res := runResourceRead(ctx, t, linked, q, cfg, idp)
	if res.outcome == outcomeCandidates {
		return res
	}
	if res.err != nil {
		logger.Debug("linked doctype resource read failed, retrying via get_list",
			slog.String("doctype", optionsText),
			slog.String("error", res.err.Error()),
		)
	}
	linked.Kind = KindRPCList
	return runRPCList(ctx, t, linked, q, cfg, idp)
}

// searchLinkRow is one autocomplete suggestion. The displayed candidate is
// label, falling back to description, falling back to value.
type searchLinkRow struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

func runSearchLink(ctx context.Context, t Transport, s Strategy, q Query, cfg EngineConfig) strategyResult {
	var rows []searchLinkRow
	err := t.MethodPost(ctx, "frappe.desk.search.search_link", map[string]any{
		"doctype":           "Lead",
		"reference_doctype": s.Doctype,
		"txt":               "",
		"page_length":       pageLength(q, s, cfg),
	}, &rows)
	if err != nil {
		return classifyFailure(err)
	}

	opts := make([]Option, 0, len(rows))
	for _, row := range rows {
		label := strings.TrimSpace(row.Label)
		if label == "" {
			label = strings.TrimSpace(row.Description)
		}
		if label == "" {
			label = strings.TrimSpace(row.Value)
		}
		if label == "" {
			continue
		}
		value := strings.TrimSpace(row.Value)
		if value == "" {
			value = label
		}
		opts = append(opts, Option{Value: value, Label: label})
	}
	return candidatesOrEmpty(opts)
}

func runDeriveFromLeads(ctx context.Context, t Transport, s Strategy, q Query, cfg EngineConfig, idp *IdentifierPatterns, logger *slog.Logger) strategyResult {
	lead := s
	lead.Doctype = "Lead"

	res := runResourceRead(ctx, t, lead, q, cfg, idp)
	if res.outcome == outcomeCandidates {
		return res
	}
	if res.err != nil {
		logger.Debug("lead resource read failed, retrying via get_list",
			slog.String("error", res.err.Error()),
		)
	}
	return runRPCList(ctx, t, lead, q, cfg, idp)
}
