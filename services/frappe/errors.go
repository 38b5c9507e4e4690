// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package frappe

import (
	"errors"
	"fmt"
	"regexp"
)

// APIError is the typed error returned for any non-2xx backend response.
//
// Description:
//
//	Frappe-style backends signal failures through an HTTP status plus a
//	loosely structured JSON body. The only portable failure signal across
//	deployments is the message text, so APIError preserves it verbatim
//	alongside whatever structure the body happened to carry. Callers are
//	expected to classify errors by message shape (see IsDoctypeMissing),
//	never by status code alone.
//
// Thread Safety: APIError is immutable after construction.
type APIError struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int

	// ExcType is the backend's exception class name (e.g. "DoesNotExistError"),
	// when the body carried one. Empty for non-JSON error bodies.
	ExcType string

	// Message is the human-readable error text extracted from the body,
	// falling back to the raw body snippet when no structure was found.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.ExcType != "" {
		return fmt.Sprintf("backend error %d (%s): %s", e.StatusCode, e.ExcType, e.Message)
	}
	return fmt.Sprintf("backend error %d: %s", e.StatusCode, e.Message)
}

// doctypeMissingPattern recognizes the "DocType X not found" family of
// messages that permission-restricted or partially provisioned deployments
// emit when an optional doctype is absent.
var doctypeMissingPattern = regexp.MustCompile(`(?i)\bdoctype\b.*\b(not found|does not exist|not allowed)\b`)

// IsDoctypeMissing reports whether err looks like a "doctype not found"
// failure. These are an expected deployment variation, not an anomaly:
// many installations lack optional doctypes entirely, and some permission
// models hide them. Classification is by message text because that is the
// only signal stable across backend versions.
func IsDoctypeMissing(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.ExcType == "DoesNotExistError" {
			return true
		}
		return doctypeMissingPattern.MatchString(apiErr.Message)
	}
	return doctypeMissingPattern.MatchString(err.Error())
}
