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
	"fmt"
	"strconv"
	"strings"
)

// normalizeRows converts heterogeneous raw rows into candidate options.
//
// Description:
//
//	For each row the strategy's field candidates are probed in order and the
//	first non-empty trimmed string wins — the same "first non-empty wins"
//	precedence the old per-doctype fetchers applied with inline optional
//	chaining, made explicit and testable. Rows with no usable property fall
//	back to their "name" only when it does not look like an internal record
//	number. Rows that still yield nothing are silently dropped. Input order
//	is preserved.
//
//	Labeled strategies (ValueField/LabelField set) build two-part options
//	instead: the persisted value and a "Display Name (value)" label.
func normalizeRows(rows []map[string]any, s Strategy, idp *IdentifierPatterns) []Option {
	opts := make([]Option, 0, len(rows))
	for _, row := range rows {
		if s.LabelField != "" || s.ValueField != "" {
			if opt, ok := normalizeLabeledRow(row, s); ok {
				opts = append(opts, opt)
			}
			continue
		}

		candidate := firstCandidate(row, s.FieldCandidates)
		if candidate == "" {
			if name := stringField(row, "name"); name != "" && !idp.Matches(name) {
				candidate = name
			}
		}
		if candidate == "" {
			continue
		}
		opts = append(opts, Option{Value: candidate, Label: candidate})
	}
	return opts
}

// normalizeLabeledRow builds a value/label pair for attributes whose
// persisted value differs from the visible text (e.g. lead owner).
func normalizeLabeledRow(row map[string]any, s Strategy) (Option, bool) {
	value := stringField(row, s.ValueField)
	if value == "" {
		value = stringField(row, "name")
	}

	display := stringField(row, s.LabelField)
	if display == "" {
		display = firstCandidate(row, s.FieldCandidates)
	}

	switch {
	case value == "" && display == "":
		return Option{}, false
	case value == "":
		return Option{Value: display, Label: display}, true
	case display == "" || display == value:
		// A bare identifier with no display name stays as-is here; the
		// cross-reference pass may still map it to a human name.
		return Option{Value: value, Label: value}, true
	default:
		return Option{Value: value, Label: fmt.Sprintf("%s (%s)", display, value)}, true
	}
}

// firstCandidate probes the field candidates in order and returns the first
// non-empty trimmed string value.
func firstCandidate(row map[string]any, fieldCandidates []string) string {
	for _, field := range fieldCandidates {
		if v := stringField(row, field); v != "" {
			return v
		}
	}
	return ""
}

// stringField extracts a trimmed string from a row property. Numeric JSON
// scalars are rendered; every other shape (null, arrays, objects, booleans)
// yields "" — the row is duck-typed and anything non-textual is not a label.
func stringField(row map[string]any, key string) string {
	if key == "" {
		return ""
	}
	switch v := row[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
