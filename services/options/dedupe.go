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

// dedupeOptions removes options whose label was already seen, keeping the
// first occurrence. Equality is exact byte-for-byte string comparison: case
// and whitespace were already canonicalized upstream, so two labels that
// differ at all are two distinct options.
func dedupeOptions(opts []Option) []Option {
	seen := make(map[string]struct{}, len(opts))
	out := make([]Option, 0, len(opts))
	for _, opt := range opts {
		if _, dup := seen[opt.Label]; dup {
			continue
		}
		seen[opt.Label] = struct{}{}
		out = append(out, opt)
	}
	return out
}
