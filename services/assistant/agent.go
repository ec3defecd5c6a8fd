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
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Basit343/E-Commerce-Assistant/services/llm"
)

var agentTracer = otel.Tracer("assistant.agent")

// maxToolIterations bounds the tool-call loop per query. Each query
// needs at most one tool invocation; the margin covers a model that
// retries with a rephrased argument.
const maxToolIterations = 3

// systemPrompt frames the assistant for the model. The tools do the
// actual retrieval; the model only picks one and phrases the reply.
const systemPrompt = `You are a helpful customer assistant for an e-commerce store.

You have two tools:
- product_search_tool: searches and filters the product catalog. Use it for any question about products, prices, ratings, stock, or best sellers.
- faq_query_tool: looks up customer-support questions in the FAQ knowledge base. Use it for questions about policies, returns, shipping, payments, or accounts.

Always answer using a tool's output. Pass the user's question to the tool verbatim. If a tool reports no results or no relevant FAQ, relay that politely and suggest rephrasing. Do not invent products, prices, or policies.`

// toolCaller is the slice of the LLM client the agent needs. Satisfied
// by *llm.OpenAIClient; tests substitute a fake.
type toolCaller interface {
	ChatWithTools(ctx context.Context, messages []llm.ChatMessage,
		params llm.GenerationParams, tools []llm.ToolDef) (*llm.ChatWithToolsResult, error)
}

// Response is the assistant's answer to one query.
type Response struct {
	// Answer is the final text shown to the user.
	Answer string `json:"answer"`

	// Tool names the tool that produced the underlying data, or "" when
	// the model answered without calling one.
	Tool string `json:"tool"`

	// SessionID identifies this exchange in logs and traces.
	SessionID string `json:"session_id"`
}

// Agent orchestrates tool selection and answer composition.
//
// Description:
//
//	With an LLM client configured, the agent lets the model pick a tool
//	through function calling, bounded by maxToolIterations. Without one
//	(nil client), it degrades to the deterministic pre-router: route the
//	query, run the tool, return its output verbatim. Either way
//	ProcessQuery always returns a Response and never an error.
//
// Thread Safety: Agent is immutable after NewAgent and safe for
// concurrent use.
type Agent struct {
	client toolCaller
	router *Router
	tools  map[string]Tool
	defs   []llm.ToolDef
	logger *slog.Logger
}

// NewAgent wires the agent. client may be nil for deterministic-only
// operation.
func NewAgent(client toolCaller, router *Router, tools []Tool, logger *slog.Logger) *Agent {
	a := &Agent{
		client: client,
		router: router,
		tools:  make(map[string]Tool, len(tools)),
		logger: logger,
	}
	for _, t := range tools {
		a.tools[t.Name()] = t
		a.defs = append(a.defs, t.Definition())
	}
	return a
}

// ProcessQuery answers a single query.
//
// Outputs:
//   - Response: always populated; failures surface as answer text, not
//     errors, so callers have a single uniform path.
func (a *Agent) ProcessQuery(ctx context.Context, query string) Response {
	ctx, span := agentTracer.Start(ctx, "assistant.Agent.ProcessQuery")
	defer span.End()

	sessionID := uuid.NewString()
	span.SetAttributes(attribute.String("session_id", sessionID))

	if a.client == nil {
		return a.deterministic(ctx, query, sessionID)
	}

	resp, ok := a.converse(ctx, query, sessionID)
	if !ok {
		// Model unavailable or misbehaving; the engines still work.
		return a.deterministic(ctx, query, sessionID)
	}
	return resp
}

// deterministic routes the query and returns the tool output verbatim.
func (a *Agent) deterministic(ctx context.Context, query, sessionID string) Response {
	decision := a.router.Route(ctx, query)
	tool, ok := a.tools[decision.Tool]
	if !ok {
		a.logger.Error("router selected unknown tool", slog.String("tool", decision.Tool))
		return Response{
			Answer:    "I'm sorry, I can't answer that right now.",
			SessionID: sessionID,
		}
	}
	return Response{
		Answer:    tool.Run(ctx, query),
		Tool:      tool.Name(),
		SessionID: sessionID,
	}
}

// converse runs the bounded function-calling loop. Returns ok=false when
// the model cannot produce an answer and the caller should fall back.
func (a *Agent) converse(ctx context.Context, query, sessionID string) (Response, bool) {
	messages := []llm.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: query},
	}

	usedTool := ""
	for i := 0; i < maxToolIterations; i++ {
		result, err := a.client.ChatWithTools(ctx, messages, llm.GenerationParams{}, a.defs)
		if err != nil {
			a.logger.Warn("LLM call failed, falling back to deterministic routing",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
			return Response{}, false
		}

		if len(result.ToolCalls) == 0 {
			return Response{Answer: result.Content, Tool: usedTool, SessionID: sessionID}, true
		}

		messages = append(messages, llm.ChatMessage{
			Role:      "assistant",
			Content:   result.Content,
			ToolCalls: result.ToolCalls,
		})
		for _, tc := range result.ToolCalls {
			output := a.runToolCall(ctx, tc, query)
			usedTool = tc.Name
			messages = append(messages, llm.ChatMessage{
				Role:       "tool",
				Content:    output,
				ToolCallID: tc.ID,
				ToolName:   tc.Name,
			})
		}
	}

	a.logger.Warn("tool iteration budget exhausted",
		slog.String("session_id", sessionID),
		slog.Int("max_iterations", maxToolIterations),
	)
	return Response{}, false
}

// runToolCall executes one requested tool call. The query argument from
// the model is preferred; the original user query is the fallback when
// the arguments don't parse.
func (a *Agent) runToolCall(ctx context.Context, tc llm.ToolCallResponse, originalQuery string) string {
	tool, ok := a.tools[tc.Name]
	if !ok {
		a.logger.Warn("model requested unknown tool", slog.String("tool", tc.Name))
		return "Error: unknown tool " + tc.Name
	}

	var args struct {
		Query string `json:"query"`
	}
	query := originalQuery
	if err := json.Unmarshal([]byte(tc.ArgumentsString()), &args); err == nil && args.Query != "" {
		query = args.Query
	}

	return tool.Run(ctx, query)
}
