// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package optionsapi exposes the attribute resolution engine over HTTP for
// form screens. It is a thin translation layer: attribute names map to
// engine calls, engine Results map to status codes, and nothing else lives
// here.
package optionsapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/CRMBridge/services/options"
)

// Resolver is the slice of the engine the handlers consume. *options.Engine
// satisfies it; tests substitute struct mocks.
type Resolver interface {
	Resolve(ctx context.Context, attr options.Attribute, q options.Query) options.Result
}

// Handlers holds the HTTP handlers for the options endpoints.
type Handlers struct {
	engine Resolver
	logger *slog.Logger
}

// NewHandlers builds handlers over a resolution engine.
func NewHandlers(engine Resolver, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{engine: engine, logger: logger}
}

// ErrorResponse is the JSON error envelope for all non-2xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ResolveResponse is the success envelope for one resolved attribute.
type ResolveResponse struct {
	Attribute string           `json:"attribute"`
	Data      []options.Option `json:"data"`
	Message   string           `json:"message,omitempty"`
}

// AttributesResponse lists the resolvable attributes.
type AttributesResponse struct {
	Attributes []string `json:"attributes"`
}

// HandleResolve handles GET /v1/options/:attribute.
//
// Description:
//
//	Resolves one attribute's dropdown options. A failed resolution is not a
//	server error: the engine already folded every backend problem into a
//	user-facing message, so it maps to 422 with that message verbatim.
//
// Query Parameters:
//
//	limit  - Max options to request per backend query (optional).
//	offset - Pagination offset (optional).
func (h *Handlers) HandleResolve(c *gin.Context) {
	attr, err := options.ParseAttribute(c.Param("attribute"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: err.Error(),
			Code:  "unknown_attribute",
		})
		return
	}

	q := options.Query{
		Limit:  intQuery(c, "limit"),
		Offset: intQuery(c, "offset"),
	}

	result := h.engine.Resolve(c.Request.Context(), attr, q)
	if !result.OK {
		h.logger.Info("attribute resolution failed",
			slog.String("attribute", string(attr)),
			slog.String("message", result.Message),
		)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: result.Message,
			Code:  "resolution_failed",
		})
		return
	}

	c.JSON(http.StatusOK, ResolveResponse{
		Attribute: string(attr),
		Data:      result.Options,
		Message:   result.Message,
	})
}

// HandleListAttributes handles GET /v1/options.
func (h *Handlers) HandleListAttributes(c *gin.Context) {
	attrs := options.Attributes()
	names := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		names = append(names, string(attr))
	}
	c.JSON(http.StatusOK, AttributesResponse{Attributes: names})
}

// HandleHealth handles GET /v1/options/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// intQuery parses an optional non-negative integer query parameter; absent
// or malformed values yield 0, which the engine treats as "use defaults".
func intQuery(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
