// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package assistant

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Basit343/E-Commerce-Assistant/services/assistant/config"
)

var routerTracer = otel.Tracer("assistant.router")

// Rule types reported in Decision.RuleType and the router metrics.
const (
	RuleForced  = "forced"
	RuleKeyword = "keyword"
	RuleDefault = "default"
)

// Decision is the outcome of routing a single query.
type Decision struct {
	// Tool is the selected tool name.
	Tool string

	// Reason explains the decision in human terms.
	Reason string

	// RuleType is RuleForced, RuleKeyword, or RuleDefault.
	RuleType string

	// Scores holds the per-tool keyword scores (empty for forced matches).
	Scores map[string]float64
}

// compiledPattern holds a pattern string alongside its pre-compiled
// regex. The regex is nil for substring-only patterns.
type compiledPattern struct {
	raw   string
	regex *regexp.Regexp
}

// compiledMapping is a ForcedMapping with its patterns compiled.
type compiledMapping struct {
	patterns []compiledPattern
	tool     string
	reason   string
}

// Router deterministically selects a tool for a query.
//
// Description:
//
//	Evaluates, in order: forced phrase mappings, keyword scoring over
//	each tool's vocabulary, and finally the configured default tool.
//	Routing is a pure function of the query text and the rules; the same
//	query always yields the same Decision.
//
// Thread Safety: Router is immutable after NewRouter and safe for
// concurrent use.
type Router struct {
	forced      []compiledMapping
	keywords    []config.ToolKeywords
	defaultTool string
	logger      *slog.Logger
}

// NewRouter compiles the routing rules.
//
// Inputs:
//   - cfg: validated routing configuration (see config.LoadRoutingConfig).
//   - logger: destination for per-decision debug logs. Must not be nil.
func NewRouter(cfg *config.RoutingConfig, logger *slog.Logger) *Router {
	r := &Router{
		keywords:    cfg.ToolKeywords,
		defaultTool: cfg.DefaultTool,
		logger:      logger,
	}
	for _, fm := range cfg.ForcedMappings {
		r.forced = append(r.forced, compiledMapping{
			patterns: compilePatterns(fm.Patterns, logger),
			tool:     fm.Tool,
			reason:   fm.Reason,
		})
	}
	return r
}

// compilePatterns lowercases each pattern and pre-compiles those that
// contain ".*" as case-insensitive regexes. A pattern that fails to
// compile degrades to substring matching rather than aborting startup.
func compilePatterns(patterns []string, logger *slog.Logger) []compiledPattern {
	result := make([]compiledPattern, len(patterns))
	for i, p := range patterns {
		patternLower := strings.ToLower(p)
		cp := compiledPattern{raw: patternLower}
		if strings.Contains(patternLower, ".*") {
			re, err := regexp.Compile("(?i)" + patternLower)
			if err != nil {
				logger.Warn("invalid routing pattern, falling back to substring match",
					slog.String("pattern", p),
					slog.String("error", err.Error()),
				)
			} else {
				cp.regex = re
			}
		}
		result[i] = cp
	}
	return result
}

// Route selects the tool for a query.
//
// Outputs:
//   - Decision: always a valid decision; there is no error path. A query
//     matching nothing routes to the default tool.
func (r *Router) Route(ctx context.Context, query string) Decision {
	_, span := routerTracer.Start(ctx, "assistant.Router.Route")
	defer span.End()

	queryLower := strings.ToLower(query)

	decision := r.decide(queryLower)
	span.SetAttributes(
		attribute.String("tool", decision.Tool),
		attribute.String("rule_type", decision.RuleType),
	)
	RecordRouterDecision(decision.RuleType, decision.Tool)
	r.logger.Debug("routed query",
		slog.String("tool", decision.Tool),
		slog.String("rule_type", decision.RuleType),
		slog.String("reason", decision.Reason),
	)
	return decision
}

func (r *Router) decide(queryLower string) Decision {
	for _, fm := range r.forced {
		for _, cp := range fm.patterns {
			if matchCompiledPattern(queryLower, cp) {
				return Decision{
					Tool:     fm.tool,
					Reason:   fm.reason,
					RuleType: RuleForced,
				}
			}
		}
	}

	scores := r.scoreByKeywords(queryLower)
	if best, bestScore := r.bestScore(scores); bestScore > 0 {
		return Decision{
			Tool:     best,
			Reason:   "keyword score",
			RuleType: RuleKeyword,
			Scores:   scores,
		}
	}

	return Decision{
		Tool:     r.defaultTool,
		Reason:   "no rule matched",
		RuleType: RuleDefault,
		Scores:   scores,
	}
}

func matchCompiledPattern(queryLower string, cp compiledPattern) bool {
	if cp.regex != nil {
		return cp.regex.MatchString(queryLower)
	}
	return strings.Contains(queryLower, cp.raw)
}

// scoreByKeywords counts vocabulary hits per tool. Substring matching
// keeps "products" voting for the "product" keyword the same way the
// category scan in catalog.Extract works.
func (r *Router) scoreByKeywords(queryLower string) map[string]float64 {
	scores := make(map[string]float64, len(r.keywords))
	for _, tk := range r.keywords {
		for _, kw := range tk.Keywords {
			if strings.Contains(queryLower, strings.ToLower(kw)) {
				scores[tk.Tool]++
			}
		}
	}
	return scores
}

// bestScore returns the highest-scoring tool. Ties break by keyword-set
// declaration order so routing stays deterministic.
func (r *Router) bestScore(scores map[string]float64) (string, float64) {
	best, bestScore := "", 0.0
	for _, tk := range r.keywords {
		if s := scores[tk.Tool]; s > bestScore {
			best, bestScore = tk.Tool, s
		}
	}
	return best, bestScore
}
