// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package assistant composes the retrieval engines into a question-
// answering service: a deterministic pre-router and two tools (catalog
// search, FAQ lookup), optionally fronted by an LLM that picks the tool
// via function calling and phrases the reply.
package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Basit343/E-Commerce-Assistant/services/assistant/config"
	"github.com/Basit343/E-Commerce-Assistant/services/faq"
	"github.com/Basit343/E-Commerce-Assistant/services/store"
)

// Service is the assembled assistant.
//
// Description:
//
//	Owns the store, the FAQ engine, both tools, the router, and the
//	agent. Construction fails if any engine cannot build; once built the
//	service is immutable and serves queries concurrently.
//
// Thread Safety: safe for concurrent use after New returns.
type Service struct {
	store *store.Store
	agent *Agent
}

// New assembles the assistant over a loaded store.
//
// Inputs:
//   - ctx: used for config loading and tracing during construction.
//   - st: the loaded tabular store. The FAQ table must be buildable
//     (see faq.NewEngine); an empty corpus is a configuration error.
//   - client: LLM client, or nil for deterministic-only operation.
//   - logger: service logger. Must not be nil.
//
// Outputs:
//   - *Service: the ready service.
//   - error: non-nil when an engine or the routing rules fail to build;
//     the service must not serve queries in that case.
func New(ctx context.Context, st *store.Store, client toolCaller, logger *slog.Logger) (*Service, error) {
	cfg, err := config.GetRoutingConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("assistant: loading routing rules: %w", err)
	}

	engine, err := faq.NewEngine(st.FAQs(), faq.DefaultThreshold)
	if err != nil {
		return nil, fmt.Errorf("assistant: building FAQ engine: %w", err)
	}

	tools := []Tool{
		NewProductTool(st),
		NewFAQTool(engine),
	}
	router := NewRouter(cfg, logger)
	agent := NewAgent(client, router, tools, logger)

	logger.Info("assistant ready",
		slog.Int("products", len(st.Products())),
		slog.Int("faqs", len(st.FAQs())),
		slog.Bool("llm_enabled", client != nil),
	)

	return &Service{store: st, agent: agent}, nil
}

// ProcessQuery answers one free-text query. Always returns a Response;
// see Agent.ProcessQuery.
func (s *Service) ProcessQuery(ctx context.Context, query string) Response {
	return s.agent.ProcessQuery(ctx, query)
}

// Products exposes the product table for the listing endpoint.
func (s *Service) Products() []store.ProductRecord {
	return s.store.Products()
}

// Categories exposes the category vocabulary.
func (s *Service) Categories() []string {
	return s.store.Categories()
}
