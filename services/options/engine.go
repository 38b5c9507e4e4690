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
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// noSessionMessage is surfaced verbatim to the UI when the precondition
// fails. It is the only failure that skips the network entirely.
const noSessionMessage = "No active session. Please log in."

var engineTracer = otel.Tracer(optionsTracerName)

// SessionSource answers the session-presence precondition. The engine
// treats absence as a hard failure independent of any backend call;
// validity of the token is the backend's problem, not the engine's.
type SessionSource interface {
	Active(ctx context.Context) (bool, error)
}

// Engine resolves logical form attributes to dropdown options.
//
// Description:
//
//	One Resolve call runs the attribute's strategy chain strictly in order
//	and short-circuits on the first tier yielding candidates — a failed
//	tier IS the signal to try the next, so tiers are never raced
//	concurrently. Candidates then flow through normalization (done inside
//	the tier), label cleaning, deduplication, and an optional
//	cross-reference pass. Nothing is cached or retained between calls;
//	independent resolutions may run concurrently with no shared mutable
//	state.
//
// Thread Safety: Safe for concurrent use; all fields are read-only after construction.
type Engine struct {
	transport Transport
	sessions  SessionSource
	names     *NameResolver
	cfg       EngineConfig
	idp       *IdentifierPatterns
	logger    *slog.Logger
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithEngineLogger substitutes the logger. Nil is ignored.
func WithEngineLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEngineConfig substitutes the loaded configuration.
func WithEngineConfig(cfg EngineConfig) EngineOption {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithNameResolver substitutes the cross-reference resolver. Nil is ignored.
func WithNameResolver(r *NameResolver) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.names = r
		}
	}
}

// NewEngine builds an Engine over a transport and session source.
//
// Inputs:
//
//	transport - Backend access. Must not be nil.
//	sessions  - Session-presence precondition. Must not be nil.
//	opts      - Optional overrides (logger, config, name resolver).
//
// Outputs:
//
//	*Engine - The constructed engine. Never nil.
func NewEngine(transport Transport, sessions SessionSource, opts ...EngineOption) *Engine {
	e := &Engine{
		transport: transport,
		sessions:  sessions,
		cfg:       DefaultEngineConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.names == nil {
		e.names = NewNameResolver(transport, e.logger)
	}
	e.idp = NewIdentifierPatterns(e.cfg.IdentifierPrefixes)
	return e
}

// Resolve runs the strategy chain for one attribute.
//
// Description:
//
//	The contract is total: Resolve always returns a Result and never
//	panics or errors across this boundary. Strategy-local transport
//	failures are logged and folded into "try the next tier"; only two
//	things reach the caller as a failed Result — a missing session, and a
//	fully exhausted chain (except lead type, which degrades to the
//	configured default set).
//
// Inputs:
//
//	ctx  - Context for cancellation. Timeouts live in the transport.
//	attr - The logical attribute to resolve.
//	q    - Caller pagination; zero values mean engine defaults.
//
// Thread Safety: Safe for concurrent use.
func (e *Engine) Resolve(ctx context.Context, attr Attribute, q Query) (result Result) {
	start := time.Now()
	resolutionID := uuid.NewString()
	logger := e.logger.With(
		slog.String("resolution_id", resolutionID),
		slog.String("attribute", string(attr)),
	)

	ctx, span := engineTracer.Start(ctx, "options.Engine.Resolve")
	span.SetAttributes(
		attribute.String("attribute", string(attr)),
		attribute.String("resolution_id", resolutionID),
	)
	defer span.End()

	// The public contract survives even a bug below this line.
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic during attribute resolution recovered", slog.Any("panic", r))
			span.SetStatus(codes.Error, "panic recovered")
			result = Errf("No %s found.", attr.DisplayName())
		}
		resolutionDuration.WithLabelValues(string(attr)).Observe(time.Since(start).Seconds())
	}()

	active, err := e.sessions.Active(ctx)
	if err != nil || !active {
		if err != nil {
			logger.Warn("session check failed", slog.String("error", err.Error()))
		}
		resolutionTotal.WithLabelValues(string(attr), "no_session").Inc()
		span.SetStatus(codes.Error, "no active session")
		return Errf(noSessionMessage)
	}

	plan := chainFor(attr, e.cfg)
	for i, strat := range plan.strategies {
		res := executeStrategy(ctx, e.transport, strat, q, e.cfg, e.idp, logger)
		strategyAttemptsTotal.WithLabelValues(strat.Kind.String(), res.outcome.String()).Inc()

		switch res.outcome {
		case outcomeCandidates:
			final := e.finalize(ctx, plan, res.options)
			if len(final) == 0 {
				// Cleaning can consume everything a tier produced; that is
				// an empty tier, not a final answer.
				continue
			}
			logger.Info("attribute resolved",
				slog.String("strategy", strat.Kind.String()),
				slog.Int("tier", i+1),
				slog.Int("options", len(final)),
			)
			resolutionTotal.WithLabelValues(string(attr), "ok").Inc()
			span.SetAttributes(
				attribute.String("strategy", strat.Kind.String()),
				attribute.Int("option_count", len(final)),
			)
			return Ok(final)

		case outcomeDoctypeMissing:
			logger.Debug("strategy target doctype missing, trying next tier",
				slog.String("strategy", strat.Kind.String()),
				slog.String("doctype", strat.Doctype),
			)

		case outcomeTransportError:
			logger.Warn("strategy failed, trying next tier",
				slog.String("strategy", strat.Kind.String()),
				slog.String("error", res.err.Error()),
			)

		case outcomeEmpty:
			logger.Debug("strategy yielded no candidates, trying next tier",
				slog.String("strategy", strat.Kind.String()),
			)
		}
	}

	if len(plan.defaults) > 0 {
		logger.Info("chain exhausted, using configured defaults",
			slog.Int("defaults", len(plan.defaults)),
		)
		resolutionTotal.WithLabelValues(string(attr), "ok_defaults").Inc()
		return OkWithAdvisory(plainOptions(plan.defaults),
			"No %s available from the backend; using configured defaults.", attr.DisplayName())
	}

	logger.Info("chain exhausted with no candidates")
	resolutionTotal.WithLabelValues(string(attr), "exhausted").Inc()
	span.SetStatus(codes.Error, "chain exhausted")
	return Errf("No %s found.", attr.DisplayName())
}

// finalize runs the post-chain pipeline: cleaning, deduplication, and the
// cross-reference pass for chains that may carry raw identifiers.
func (e *Engine) finalize(ctx context.Context, plan chainPlan, opts []Option) []Option {
	if !plan.resolveRefs {
		return dedupeOptions(cleanOptions(opts, e.idp))
	}

	// Cleaning is deferred: identifiers must survive long enough to be
	// offered to the cross-reference resolver.
	opts = dedupeOptions(opts)

	var identifiers []string
	for _, opt := range opts {
		if e.idp.Matches(opt.Label) {
			identifiers = append(identifiers, opt.Label)
		}
	}

	if len(identifiers) > 0 {
		resolved := e.names.ResolveNames(ctx, identifiers)
		for i, opt := range opts {
			if name, ok := resolved[opt.Label]; ok {
				if opt.Value == opt.Label {
					opts[i].Value = name
				}
				opts[i].Label = name
			}
		}
	}

	return dedupeOptions(cleanOptionsKeepingIdentifiers(opts, e.idp))
}

// cleanOptionsKeepingIdentifiers cleans labels but retains identifiers the
// cross-reference pass could not map: a missing mapping means "keep the
// original identifier", never "drop the row".
func cleanOptionsKeepingIdentifiers(opts []Option, idp *IdentifierPatterns) []Option {
	cleaned := make([]Option, 0, len(opts))
	for _, opt := range opts {
		label := CleanLabel(opt.Label, idp)
		if label == "" {
			if !idp.Matches(opt.Label) {
				continue
			}
			label = opt.Label
		}
		opt.Label = label
		if opt.Value == "" {
			opt.Value = label
		}
		cleaned = append(cleaned, opt)
	}
	return cleaned
}
