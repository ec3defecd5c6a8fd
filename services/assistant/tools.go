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
	"fmt"
	"time"

	"github.com/Basit343/E-Commerce-Assistant/services/catalog"
	"github.com/Basit343/E-Commerce-Assistant/services/faq"
	"github.com/Basit343/E-Commerce-Assistant/services/llm"
	"github.com/Basit343/E-Commerce-Assistant/services/store"
)

// Tool names used in routing rules, tool definitions, and metrics labels.
const (
	ProductToolName = "product_search_tool"
	FAQToolName     = "faq_query_tool"
)

// FAQNoMatchMessage is the fixed response when no FAQ clears the
// similarity threshold.
const FAQNoMatchMessage = "No relevant FAQ found for this query. Please try rephrasing your question or contact support."

// Tool is a retrieval engine exposed to the agent.
//
// Description:
//
//	Run always returns text, never an error: internal failures are
//	caught at the tool boundary and converted to a descriptive error
//	string so the agent's contract stays uniform.
//
// Thread Safety: implementations are immutable after construction and
// safe for concurrent use.
type Tool interface {
	Name() string
	Definition() llm.ToolDef
	Run(ctx context.Context, query string) string
}

// queryParam is the single-parameter schema both tools share.
func queryParam(description string) llm.ToolParameters {
	return llm.ToolParameters{
		Type: "object",
		Properties: map[string]llm.ToolParamDef{
			"query": {Type: "string", Description: description},
		},
		Required: []string{"query"},
	}
}

// =============================================================================
// Product Search Tool
// =============================================================================

// ProductTool answers catalog queries via the extract→apply→format
// pipeline.
type ProductTool struct {
	products   []store.ProductRecord
	categories []string
}

// NewProductTool builds the product tool over the loaded catalog.
func NewProductTool(s *store.Store) *ProductTool {
	return &ProductTool{
		products:   s.Products(),
		categories: s.Categories(),
	}
}

// Name implements Tool.
func (t *ProductTool) Name() string { return ProductToolName }

// Definition implements Tool.
func (t *ProductTool) Definition() llm.ToolDef {
	return llm.ToolDef{
		Type: "function",
		Function: llm.ToolFunction{
			Name: ProductToolName,
			Description: "Search and filter the product catalog. Handles category, " +
				"price, rating, and stock filters plus sorting and result limits " +
				"expressed in natural language.",
			Parameters: queryParam("The user's product question, verbatim."),
		},
	}
}

// Run implements Tool.
//
// Description:
//
//	Extracts a filter specification from the query, applies it to the
//	catalog, and renders the report. A panic anywhere in the pipeline is
//	converted to an error string at this boundary.
func (t *ProductTool) Run(ctx context.Context, query string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("Error processing product query: %v", r)
		}
	}()
	start := time.Now()
	defer func() { RecordQuery(ProductToolName, time.Since(start).Seconds()) }()

	spec := catalog.Extract(query, t.categories)
	filtered := catalog.Apply(t.products, spec)
	return catalog.Format(filtered, spec)
}

// =============================================================================
// FAQ Query Tool
// =============================================================================

// FAQTool answers support questions via tf-idf similarity lookup.
type FAQTool struct {
	engine *faq.Engine
}

// NewFAQTool wraps an already-built FAQ engine.
func NewFAQTool(engine *faq.Engine) *FAQTool {
	return &FAQTool{engine: engine}
}

// Name implements Tool.
func (t *FAQTool) Name() string { return FAQToolName }

// Definition implements Tool.
func (t *FAQTool) Definition() llm.ToolDef {
	return llm.ToolDef{
		Type: "function",
		Function: llm.ToolFunction{
			Name: FAQToolName,
			Description: "Look up customer-support questions (returns, shipping, " +
				"payments, account issues) against the FAQ knowledge base.",
			Parameters: queryParam("The user's support question, verbatim."),
		},
	}
}

// Run implements Tool.
func (t *FAQTool) Run(ctx context.Context, query string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("Error processing FAQ query: %v", r)
		}
	}()
	start := time.Now()
	defer func() { RecordQuery(FAQToolName, time.Since(start).Seconds()) }()

	res, ok := t.engine.Match(query)
	// res carries the best score even below the threshold, so the
	// similarity histogram reflects misses honestly.
	if res != nil {
		RecordFAQSimilarity(res.Score)
	} else {
		RecordFAQSimilarity(0)
	}
	if !ok {
		return FAQNoMatchMessage
	}
	return fmt.Sprintf("I found a similar question in our FAQ:\n\nQ: %s\n\nA: %s", res.Question, res.Answer)
}
