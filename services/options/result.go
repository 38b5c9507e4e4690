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

import "fmt"

// Option is one dropdown entry. For most attributes Value and Label are the
// same cleaned string; for attributes like lead owner the Value is the
// persisted identifier and the Label the visible text
// ("Jane Doe (jane@acme.com)").
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Result is the engine's total return type: either OK with options, or a
// failure message fit for direct display in an empty-dropdown state. The
// engine never returns a Go error and never panics across its boundary —
// screens branch on OK, nothing else.
//
// Message may be non-empty alongside OK=true: that is an advisory (e.g.
// "using configured defaults"), not a failure.
type Result struct {
	OK      bool     `json:"ok"`
	Options []Option `json:"options,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Ok wraps options in a successful Result.
func Ok(opts []Option) Result {
	return Result{OK: true, Options: opts}
}

// OkWithAdvisory wraps options in a successful Result carrying an advisory
// message for the UI.
func OkWithAdvisory(opts []Option, format string, args ...any) Result {
	return Result{OK: true, Options: opts, Message: fmt.Sprintf(format, args...)}
}

// Errf builds a failed Result with a formatted user-facing message.
func Errf(format string, args ...any) Result {
	return Result{OK: false, Message: fmt.Sprintf(format, args...)}
}

// Values flattens the options to their persisted values, preserving order.
func (r Result) Values() []string {
	values := make([]string, 0, len(r.Options))
	for _, opt := range r.Options {
		values = append(values, opt.Value)
	}
	return values
}

// plainOptions lifts bare strings into Options where label and value agree.
func plainOptions(values []string) []Option {
	opts := make([]Option, 0, len(values))
	for _, v := range values {
		opts = append(opts, Option{Value: v, Label: v})
	}
	return opts
}
