// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package llm provides the chat-completion client the assistant uses to
// phrase tool output conversationally. The assistant's retrieval logic
// never depends on it; a nil client degrades to deterministic routing.
package llm

// Message is a single turn of a plain conversation without tool metadata.
type Message struct {
	// Role is "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// GenerationParams carries optional sampling parameters for a completion
// request. Nil fields are omitted from the wire request so the provider's
// defaults apply.
//
// Thread Safety: GenerationParams is a value type; safe to share read-only.
type GenerationParams struct {
	// Temperature controls sampling randomness.
	Temperature *float32

	// MaxTokens caps the completion length.
	MaxTokens *int

	// TopP is the nucleus sampling parameter.
	TopP *float32

	// Stop lists sequences that end generation.
	Stop []string

	// ModelOverride replaces the client's configured model for this
	// request only.
	ModelOverride string
}
