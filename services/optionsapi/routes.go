// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package optionsapi

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the options endpoints with the router.
//
// Description:
//
//	Registers all /v1/options/* endpoints with the given Gin router group.
//	The router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	GET /v1/options - List resolvable attributes
//	GET /v1/options/health - Health check
//	GET /v1/options/:attribute - Resolve one attribute's dropdown options
//
// Example:
//
//	engine := options.NewEngine(client, client)
//	handlers := optionsapi.NewHandlers(engine, logger)
//
//	v1 := router.Group("/v1")
//	optionsapi.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	opts := rg.Group("/options")
	{
		opts.GET("", handlers.HandleListAttributes)

		// Fixed paths must be registered before the :attribute wildcard.
		opts.GET("/health", handlers.HandleHealth)

		opts.GET("/:attribute", handlers.HandleResolve)
	}
}
