// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command crmbridge resolves form dropdown options against a Frappe-style
// document-store backend and serves them to mobile clients.
//
// Usage:
//
//	# Resolve one attribute from the terminal
//	CRMBRIDGE_BASE_URL=https://crm.example.com CRMBRIDGE_SESSION_ID=... \
//	  crmbridge resolve lead_source
//
//	# Resolve every attribute at once
//	crmbridge resolve --all
//
//	# Start the HTTP sidecar
//	crmbridge serve --port 8080
//
// Example requests against the sidecar:
//
//	curl http://localhost:8080/v1/options | jq
//	curl http://localhost:8080/v1/options/lead_source | jq
//	curl http://localhost:8080/v1/options/health
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CRMBridge/services/frappe"
	"github.com/AleutianAI/CRMBridge/services/options"
)

// jsonOutput switches resolve output from styled terminal text to raw JSON.
var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "crmbridge",
	Short: "Resilient dropdown option resolution for Frappe-style CRM backends",
	Long: `crmbridge discovers valid dropdown options (lead sources, statuses,
owners, buildings, ...) from backends whose doctypes, field names, and
permission models vary across deployments. Each attribute runs an ordered
chain of query strategies and the first productive tier wins.`,
	SilenceUsage: true,
}

func main() {
	setupLogging()

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit raw JSON instead of styled output")

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAttributesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging installs the process-wide structured logger. Level comes from
// CRMBRIDGE_LOG_LEVEL (debug, info, warn, error); default info.
func setupLogging() {
	level := slog.LevelInfo
	switch os.Getenv("CRMBRIDGE_LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// buildEngine wires a backend client and resolution engine from environment
// configuration. Shared by the resolve and serve commands.
func buildEngine() (*options.Engine, error) {
	client, err := frappe.NewClient(frappe.LoadClientConfig())
	if err != nil {
		return nil, fmt.Errorf("build backend client: %w", err)
	}

	engineCfg := options.LoadEngineConfig()
	if err := engineCfg.Validate(); err != nil {
		return nil, err
	}

	return options.NewEngine(client, client,
		options.WithEngineConfig(engineCfg),
	), nil
}
