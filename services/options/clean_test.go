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
	"reflect"
	"testing"
)

func testPatterns() *IdentifierPatterns {
	return NewIdentifierPatterns([]string{"CRM-LEAD", "HR-EMP"})
}

func TestCleanLabel(t *testing.T) {
	idp := testPatterns()

	tests := []struct {
		name  string
		label string
		want  string
	}{
		{
			name:  "plain label untouched",
			label: "Website",
			want:  "Website",
		},
		{
			name:  "wrapping quotes stripped",
			label: `"Walk In"`,
			want:  "Walk In",
		},
		{
			name:  "interior quotes preserved",
			label: `The "Annex" Building`,
			want:  `The "Annex" Building`,
		},
		{
			name:  "composite drops email and record number",
			label: "john@acme.com, CRM-LEAD-00042, Acme Towers",
			want:  "Acme Towers",
		},
		{
			name:  "composite drops trailing lead word part",
			label: "Acme Towers, Sector 9 Lead",
			want:  "Acme Towers",
		},
		{
			name:  "composite survivors rejoined",
			label: "Tower A, Floor 2, jane@acme.com",
			want:  "Tower A, Floor 2",
		},
		{
			name:  "composite kept whole when everything would drop",
			label: "john@acme.com, HR-EMP-0007",
			want:  "john@acme.com, HR-EMP-0007",
		},
		{
			name:  "whole record number cleans to empty",
			label: "CRM-LEAD-00042",
			want:  "",
		},
		{
			name:  "record number with alpha segment cleans to empty",
			label: "HR-EMP-2024-0007",
			want:  "",
		},
		{
			name:  "unknown prefix is not a record number",
			label: "PO-2024-0007",
			want:  "PO-2024-0007",
		},
		{
			name:  "lead as interior word survives",
			label: "Lead Paint Removal",
			want:  "Lead Paint Removal",
		},
		{
			name:  "whitespace trimmed",
			label: "  Referral  ",
			want:  "Referral",
		},
		{
			name:  "quoted composite cleans after unquoting",
			label: `"Acme Towers, john@acme.com"`,
			want:  "Acme Towers",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanLabel(tc.label, idp); got != tc.want {
				t.Errorf("CleanLabel(%q) = %q, want %q", tc.label, got, tc.want)
			}
		})
	}
}

func TestIdentifierPatterns_Matches(t *testing.T) {
	idp := testPatterns()

	tests := []struct {
		s    string
		want bool
	}{
		{"CRM-LEAD-00042", true},
		{"HR-EMP-0007", true},
		{"HR-EMP-2024-0007", true},
		{"HR-EMP-", false},
		{"HR-EMP-ABC", false},          // no trailing digits
		{"HR-EMPX-0007", false},        // prefix must be followed by a dash
		{"xHR-EMP-0007", false},        // anchored at the start
		{"HR-EMP-0007 extra", false},   // anchored at the end
		{"Jane Doe", false},
		{"", false},
	}

	for _, tc := range tests {
		if got := idp.Matches(tc.s); got != tc.want {
			t.Errorf("Matches(%q) = %v, want %v", tc.s, got, tc.want)
		}
	}
}

func TestIdentifierPatterns_PrefixOf(t *testing.T) {
	idp := testPatterns()

	if got := idp.PrefixOf("HR-EMP-0007"); got != "HR-EMP" {
		t.Errorf("PrefixOf = %q, want HR-EMP", got)
	}
	if got := idp.PrefixOf("Acme Towers"); got != "" {
		t.Errorf("PrefixOf = %q, want empty", got)
	}
}

func TestCleanOptions_DropsEmptiedLabels(t *testing.T) {
	idp := testPatterns()
	in := []Option{
		{Value: "Website", Label: "Website"},
		{Value: "CRM-LEAD-00042", Label: "CRM-LEAD-00042"},
		{Value: "addr-1", Label: "john@acme.com, Acme Towers"},
	}

	got := cleanOptions(in, idp)
	want := []Option{
		{Value: "Website", Label: "Website"},
		{Value: "addr-1", Label: "Acme Towers"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cleanOptions = %v, want %v", got, want)
	}
}

func TestCleanOptionsKeepingIdentifiers_RetainsUnmapped(t *testing.T) {
	idp := testPatterns()
	in := []Option{
		{Value: "HR-EMP-0099", Label: "HR-EMP-0099"},
		{Value: "Website", Label: "Website"},
	}

	got := cleanOptionsKeepingIdentifiers(in, idp)
	if !reflect.DeepEqual(got, in) {
		t.Errorf("cleanOptionsKeepingIdentifiers = %v, want input unchanged", got)
	}
}
