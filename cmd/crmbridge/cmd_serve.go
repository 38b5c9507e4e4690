// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/AleutianAI/CRMBridge/services/optionsapi"
)

func newServeCmd() *cobra.Command {
	var (
		port            int
		debug           bool
		shutdownTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the options HTTP sidecar",
		Long: `Serve exposes the resolution engine over HTTP for mobile clients:

  GET /v1/options             - list resolvable attributes
  GET /v1/options/:attribute  - resolve one attribute
  GET /v1/options/health      - health check
  GET /metrics                - Prometheus metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}

			if debug {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}

			// Inbound trace context flows from W3C headers through the
			// otelgin middleware into every engine span.
			otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
				propagation.TraceContext{},
				propagation.Baggage{},
			))

			router := gin.New()
			router.Use(gin.Recovery())
			router.Use(otelgin.Middleware("crmbridge"))
			if debug {
				router.Use(gin.Logger())
			}

			handlers := optionsapi.NewHandlers(engine, slog.Default())
			v1 := router.Group("/v1")
			optionsapi.RegisterRoutes(v1, handlers)

			router.GET("/metrics", gin.WrapH(promhttp.Handler()))

			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			serveErr := make(chan error, 1)
			go func() {
				slog.Info("starting options sidecar", slog.String("address", server.Addr))
				serveErr <- server.ListenAndServe()
			}()

			select {
			case err := <-serveErr:
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			slog.Info("shutting down", slog.Duration("grace", shutdownTimeout))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug mode and request logging")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "Grace period for in-flight requests")
	return cmd
}
