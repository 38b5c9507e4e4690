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
	"regexp"
	"strings"
)

// IdentifierPatterns recognizes internal record numbers: a configured prefix
// followed by a dash and at least one more segment ending in digits, e.g.
// "CRM-LEAD-00042" or "HR-EMP-0007". Backends hand these out as document
// names; humans never want them in a dropdown unless they have been mapped
// back to a display name first.
type IdentifierPatterns struct {
	prefixes []string
	patterns []*regexp.Regexp
}

// NewIdentifierPatterns compiles matchers for each prefix family.
func NewIdentifierPatterns(prefixes []string) *IdentifierPatterns {
	idp := &IdentifierPatterns{prefixes: prefixes}
	for _, prefix := range prefixes {
		idp.patterns = append(idp.patterns, regexp.MustCompile(
			`^`+regexp.QuoteMeta(prefix)+`-[A-Za-z0-9-]*\d+$`,
		))
	}
	return idp
}

// Matches reports whether the whole string is an internal record number.
func (idp *IdentifierPatterns) Matches(s string) bool {
	for _, re := range idp.patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// PrefixOf returns the identifier prefix family s belongs to, or "" when it
// is not an internal record number.
func (idp *IdentifierPatterns) PrefixOf(s string) string {
	for i, re := range idp.patterns {
		if re.MatchString(s) {
			return idp.prefixes[i]
		}
	}
	return ""
}

// trailingLeadWord matches a composite part that is, or ends in, the bare
// word "lead" — backends sometimes append it to address fragments.
var trailingLeadWord = regexp.MustCompile(`(?i)(^|\s)lead$`)

// CleanLabel strips internal noise from one candidate label.
//
// Description:
//
//	Three rules, applied in order:
//	  1. A single pair of wrapping double quotes is removed.
//	  2. Comma-joined composites (address/building style values) are split,
//	     and parts that contain "@" (email-like), match the internal
//	     record-number pattern, or end in the literal word "lead" are
//	     dropped; survivors are rejoined with ", ". If every part would be
//	     dropped the original composite is kept unmodified — an odd label
//	     beats an empty one.
//	  3. A whole, non-composite label that is itself a record number cleans
//	     to "", which callers treat as "drop this candidate". Callers that
//	     collect raw identifiers for cross-reference resolution defer
//	     cleaning until after resolution instead.
func CleanLabel(label string, idp *IdentifierPatterns) string {
	label = strings.TrimSpace(label)
	if len(label) >= 2 && strings.HasPrefix(label, `"`) && strings.HasSuffix(label, `"`) {
		label = strings.TrimSpace(label[1 : len(label)-1])
	}

	if strings.Contains(label, ",") {
		parts := strings.Split(label, ",")
		kept := make([]string, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.Contains(part, "@") {
				continue
			}
			if idp.Matches(part) {
				continue
			}
			if trailingLeadWord.MatchString(part) {
				continue
			}
			kept = append(kept, part)
		}
		if len(kept) == 0 {
			return label
		}
		return strings.Join(kept, ", ")
	}

	if idp.Matches(label) {
		return ""
	}
	return label
}

// cleanOptions applies CleanLabel to every option, dropping those whose
// label cleans to empty. Order is preserved.
func cleanOptions(opts []Option, idp *IdentifierPatterns) []Option {
	cleaned := make([]Option, 0, len(opts))
	for _, opt := range opts {
		label := CleanLabel(opt.Label, idp)
		if label == "" {
			continue
		}
		opt.Label = label
		if opt.Value == "" {
			opt.Value = label
		}
		cleaned = append(cleaned, opt)
	}
	return cleaned
}
