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
	"errors"
	"net/url"
	"reflect"
	"testing"

	"github.com/AleutianAI/CRMBridge/services/frappe"
)

func run(t *testing.T, transport Transport, s Strategy) strategyResult {
	t.Helper()
	return executeStrategy(context.Background(), transport, s, Query{},
		DefaultEngineConfig(), testPatterns(), quietLogger())
}

func TestRunRPCMeta_NewlineOptionsAreAStaticEnum(t *testing.T) {
	transport := &mockTransport{
		getFn: func(method string, params url.Values) (any, error) {
			if method != "frappe.client.get" || params.Get("doctype") != "DocType" || params.Get("name") != "Lead" {
				t.Fatalf("unexpected meta request %q %v", method, params)
			}
			return map[string]any{
				"fields": []map[string]any{
					{"fieldname": "other", "fieldtype": "Data", "options": ""},
					{"fieldname": "status", "fieldtype": "Select", "options": "Open\nContacted\n\n Converted "},
				},
			}, nil
		},
	}
	s := Strategy{Kind: KindRPCMeta, Doctype: "Lead", MetaField: "status"}

	res := run(t, transport, s)
	if res.outcome != outcomeCandidates {
		t.Fatalf("outcome = %s", res.outcome)
	}
	want := []Option{
		{Value: "Open", Label: "Open"},
		{Value: "Contacted", Label: "Contacted"},
		{Value: "Converted", Label: "Converted"},
	}
	if !reflect.DeepEqual(res.options, want) {
		t.Errorf("options = %v, want %v", res.options, want)
	}
}

func TestRunRPCMeta_SingleLineOptionsNameALinkedDoctype(t *testing.T) {
	transport := &mockTransport{
		getFn: func(_ string, _ url.Values) (any, error) {
			return map[string]any{
				"fields": []map[string]any{
					{"fieldname": "source", "fieldtype": "Link", "options": "Lead Source"},
				},
			}, nil
		},
		listFn: func(doctype string, _ frappe.ListQuery) ([]map[string]any, error) {
			if doctype != "Lead Source" {
				t.Fatalf("unexpected doctype %q", doctype)
			}
			return []map[string]any{{"source_name": "Website"}}, nil
		},
	}
	s := Strategy{Kind: KindRPCMeta, Doctype: "Lead", MetaField: "source", FieldCandidates: []string{"source_name"}}

	res := run(t, transport, s)
	if res.outcome != outcomeCandidates {
		t.Fatalf("outcome = %s", res.outcome)
	}
	if !reflect.DeepEqual(res.options, []Option{{Value: "Website", Label: "Website"}}) {
		t.Errorf("options = %v", res.options)
	}
}

func TestRunRPCMeta_LinkedDoctypeFallsBackToRPCList(t *testing.T) {
	transport := &mockTransport{
		getFn: func(_ string, _ url.Values) (any, error) {
			return map[string]any{
				"fields": []map[string]any{
					{"fieldname": "source", "options": "Lead Source"},
				},
			}, nil
		},
		listFn: func(_ string, _ frappe.ListQuery) ([]map[string]any, error) {
			return nil, errors.New("resource endpoint forbidden")
		},
		postFn: func(method string, payload map[string]any) (any, error) {
			if method != "frappe.client.get_list" || payload["doctype"] != "Lead Source" {
				t.Fatalf("unexpected RPC %q %v", method, payload["doctype"])
			}
			return []map[string]any{{"source_name": "Referral"}}, nil
		},
	}
	s := Strategy{Kind: KindRPCMeta, Doctype: "Lead", MetaField: "source", FieldCandidates: []string{"source_name"}}

	res := run(t, transport, s)
	if res.outcome != outcomeCandidates {
		t.Fatalf("outcome = %s", res.outcome)
	}
	if !reflect.DeepEqual(res.options, []Option{{Value: "Referral", Label: "Referral"}}) {
		t.Errorf("options = %v", res.options)
	}
}

func TestRunRPCMeta_MissingFieldIsEmpty(t *testing.T) {
	transport := &mockTransport{
		getFn: func(_ string, _ url.Values) (any, error) {
			return map[string]any{"fields": []map[string]any{}}, nil
		},
	}
	s := Strategy{Kind: KindRPCMeta, Doctype: "Lead", MetaField: "type"}

	if res := run(t, transport, s); res.outcome != outcomeEmpty {
		t.Errorf("outcome = %s, want empty", res.outcome)
	}
}

func TestRunSearchLink_LabelPrecedence(t *testing.T) {
	transport := &mockTransport{
		postFn: func(method string, payload map[string]any) (any, error) {
			if method != "frappe.desk.search.search_link" {
				t.Fatalf("unexpected method %q", method)
			}
			if payload["reference_doctype"] != "Service Type" {
				t.Fatalf("reference_doctype = %v", payload["reference_doctype"])
			}
			return []map[string]any{
				{"value": "ST-001", "label": "Cleaning", "description": "ignored"},
				{"value": "ST-002", "label": "", "description": "Security"},
				{"value": "Plumbing", "label": "", "description": ""},
				{"value": "", "label": "", "description": ""},
			}, nil
		},
	}
	s := Strategy{Kind: KindSearchLink, Doctype: "Service Type"}

	res := run(t, transport, s)
	if res.outcome != outcomeCandidates {
		t.Fatalf("outcome = %s", res.outcome)
	}
	want := []Option{
		{Value: "ST-001", Label: "Cleaning"},
		{Value: "ST-002", Label: "Security"},
		{Value: "Plumbing", Label: "Plumbing"},
	}
	if !reflect.DeepEqual(res.options, want) {
		t.Errorf("options = %v, want %v", res.options, want)
	}
}

func TestClassifyFailure(t *testing.T) {
	missing := &frappe.APIError{StatusCode: 404, ExcType: "DoesNotExistError", Message: "gone"}
	if res := classifyFailure(missing); res.outcome != outcomeDoctypeMissing {
		t.Errorf("outcome = %s, want doctype_missing", res.outcome)
	}
	if res := classifyFailure(errors.New("timeout")); res.outcome != outcomeTransportError {
		t.Errorf("outcome = %s, want transport_error", res.outcome)
	}
}

func TestListFields_IncludesNameExactlyOnce(t *testing.T) {
	got := listFields(Strategy{FieldCandidates: []string{"source_name", "name"}})
	if !reflect.DeepEqual(got, []string{"source_name", "name"}) {
		t.Errorf("listFields = %v", got)
	}

	got = listFields(Strategy{FieldCandidates: []string{"full_name"}, ValueField: "name", LabelField: "full_name"})
	names := 0
	for _, f := range got {
		if f == "name" {
			names++
		}
	}
	if names != 1 {
		t.Errorf("listFields = %v, want exactly one name", got)
	}
}

func TestPageLength_Precedence(t *testing.T) {
	cfg := DefaultEngineConfig()
	if got := pageLength(Query{Limit: 5}, Strategy{PageSize: 10}, cfg); got != 5 {
		t.Errorf("caller limit should win, got %d", got)
	}
	if got := pageLength(Query{}, Strategy{PageSize: 10}, cfg); got != 10 {
		t.Errorf("strategy override should win, got %d", got)
	}
	if got := pageLength(Query{}, Strategy{}, cfg); got != cfg.PageSize {
		t.Errorf("engine default should win, got %d", got)
	}
}

func TestParseAttribute(t *testing.T) {
	attr, err := ParseAttribute("lead_source")
	if err != nil || attr != AttributeLeadSource {
		t.Errorf("ParseAttribute = %v, %v", attr, err)
	}
	if _, err := ParseAttribute("bogus"); err == nil {
		t.Error("expected error for unknown attribute")
	}
}
