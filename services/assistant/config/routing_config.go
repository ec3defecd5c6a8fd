// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config holds the assistant's embedded routing rules: the
// deterministic query→tool mappings the pre-router consults before any
// model-based tool selection.
package config

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

var routingConfigTracer = otel.Tracer("assistant.config.routing")

// MaxYAMLFileSize caps routing rule files at 1 MiB. Anything larger is
// almost certainly the wrong file.
const MaxYAMLFileSize = 1 << 20

// =============================================================================
// Embedded Default Routing Rules
// =============================================================================

//go:embed routing_rules.yaml
var defaultRoutingRulesYAML []byte

// =============================================================================
// Routing Configuration Types
// =============================================================================

// RoutingConfig defines the pre-router behavior and rules.
//
// Description:
//
//	Contains the forced phrase→tool mappings, the per-tool keyword
//	vocabularies used for scoring, and the fallback tool for queries
//	matching nothing.
//
// Thread Safety: Immutable after loading; safe for concurrent use.
type RoutingConfig struct {
	// DefaultTool receives every query that matches no rule.
	DefaultTool string `yaml:"default_tool"`

	// ForcedMappings map exact phrase patterns to deterministic tool
	// selections. A forced match skips keyword scoring entirely.
	ForcedMappings []ForcedMapping `yaml:"forced_mappings"`

	// ToolKeywords lists the scoring vocabulary per tool.
	ToolKeywords []ToolKeywords `yaml:"tool_keywords"`
}

// ForcedMapping maps phrase patterns to a deterministic tool selection.
type ForcedMapping struct {
	// Patterns are substring or regex patterns matched against the query.
	// A pattern containing ".*" is treated as a case-insensitive regex,
	// anything else as a plain substring.
	Patterns []string `yaml:"patterns"`

	// Tool is the tool to force when a pattern matches.
	Tool string `yaml:"tool"`

	// Reason explains why this mapping exists (for logging/tracing).
	Reason string `yaml:"reason"`
}

// ToolKeywords is the keyword vocabulary that votes for one tool.
type ToolKeywords struct {
	// Tool is the tool the keywords vote for.
	Tool string `yaml:"tool"`

	// Keywords are matched case-insensitively as substrings of the query.
	Keywords []string `yaml:"keywords"`
}

// =============================================================================
// Singleton Routing Config
// =============================================================================

var (
	routingConfigMu      sync.RWMutex
	routingConfigOnce    sync.Once
	cachedRoutingConfig  *RoutingConfig
	routingConfigLoadErr error
)

// GetRoutingConfig returns the cached routing configuration.
//
// Description:
//
//	Loads the embedded rules on first call and caches for subsequent
//	calls. Uses sync.Once for thread-safe initialization.
//
// Inputs:
//
//	ctx - Context for tracing. Must not be nil.
//
// Outputs:
//
//	*RoutingConfig - The loaded configuration. Never nil on success.
//	error - Non-nil if loading or validation failed.
//
// Thread Safety: Safe for concurrent use via sync.Once.
func GetRoutingConfig(ctx context.Context) (*RoutingConfig, error) {
	if ctx == nil {
		return nil, fmt.Errorf("GetRoutingConfig: ctx must not be nil")
	}

	routingConfigMu.RLock()
	if cachedRoutingConfig != nil || routingConfigLoadErr != nil {
		cfg, err := cachedRoutingConfig, routingConfigLoadErr
		routingConfigMu.RUnlock()
		return cfg, err
	}
	routingConfigMu.RUnlock()

	routingConfigMu.Lock()
	defer routingConfigMu.Unlock()

	if cachedRoutingConfig != nil || routingConfigLoadErr != nil {
		return cachedRoutingConfig, routingConfigLoadErr
	}

	routingConfigOnce.Do(func() {
		cachedRoutingConfig, routingConfigLoadErr = LoadRoutingConfig(ctx, defaultRoutingRulesYAML)
	})

	return cachedRoutingConfig, routingConfigLoadErr
}

// ResetRoutingConfig resets the cached config for testing.
//
// Thread Safety: Safe for concurrent use.
func ResetRoutingConfig() {
	routingConfigMu.Lock()
	defer routingConfigMu.Unlock()
	cachedRoutingConfig = nil
	routingConfigLoadErr = nil
	routingConfigOnce = sync.Once{}
}

// LoadRoutingConfig loads and validates a RoutingConfig from YAML bytes.
//
// Description:
//
//	Parses the YAML and validates every rule (non-empty tool names,
//	non-empty pattern and keyword lists, a default tool that exists).
//
// Inputs:
//
//	ctx - Context for tracing.
//	data - Raw YAML bytes to parse.
//
// Outputs:
//
//	*RoutingConfig - The validated configuration.
//	error - Non-nil if parsing or validation fails.
func LoadRoutingConfig(ctx context.Context, data []byte) (*RoutingConfig, error) {
	_, span := routingConfigTracer.Start(ctx, "config.LoadRoutingConfig")
	defer span.End()

	if len(data) == 0 {
		return nil, fmt.Errorf("LoadRoutingConfig: empty YAML data")
	}
	if len(data) > MaxYAMLFileSize {
		return nil, fmt.Errorf("LoadRoutingConfig: YAML data exceeds maximum size (%d > %d)", len(data), MaxYAMLFileSize)
	}

	var cfg RoutingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("LoadRoutingConfig: parsing YAML: %w", err)
	}

	if err := validateRoutingConfig(&cfg); err != nil {
		return nil, fmt.Errorf("LoadRoutingConfig: validation: %w", err)
	}

	span.SetAttributes(
		attribute.String("default_tool", cfg.DefaultTool),
		attribute.Int("forced_mappings", len(cfg.ForcedMappings)),
		attribute.Int("tool_keyword_sets", len(cfg.ToolKeywords)),
	)

	slog.Info("routing config loaded",
		slog.String("default_tool", cfg.DefaultTool),
		slog.Int("forced_mappings", len(cfg.ForcedMappings)),
		slog.Int("tool_keyword_sets", len(cfg.ToolKeywords)),
	)

	return &cfg, nil
}

// validateRoutingConfig checks all rules for consistency.
func validateRoutingConfig(cfg *RoutingConfig) error {
	if cfg.DefaultTool == "" {
		return fmt.Errorf("default_tool must not be empty")
	}

	for i, fm := range cfg.ForcedMappings {
		if fm.Tool == "" {
			return fmt.Errorf("forced_mapping[%d]: tool must not be empty", i)
		}
		if len(fm.Patterns) == 0 {
			return fmt.Errorf("forced_mapping[%d] (%s): patterns must not be empty", i, fm.Tool)
		}
	}

	known := make(map[string]bool, len(cfg.ToolKeywords))
	for i, tk := range cfg.ToolKeywords {
		if tk.Tool == "" {
			return fmt.Errorf("tool_keywords[%d]: tool must not be empty", i)
		}
		if len(tk.Keywords) == 0 {
			return fmt.Errorf("tool_keywords[%d] (%s): keywords must not be empty", i, tk.Tool)
		}
		if known[tk.Tool] {
			return fmt.Errorf("tool_keywords[%d]: duplicate entry for tool %s", i, tk.Tool)
		}
		known[tk.Tool] = true
	}

	if len(known) > 0 && !known[cfg.DefaultTool] {
		return fmt.Errorf("default_tool %q has no tool_keywords entry", cfg.DefaultTool)
	}

	return nil
}
