// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package faq

import (
	"fmt"
	"log/slog"

	"github.com/Basit343/E-Commerce-Assistant/services/store"
)

// DefaultThreshold is the minimum cosine score required to accept a
// match. Below it the engine reports "no match" rather than guessing.
const DefaultThreshold = 0.3

// MatchResult is the outcome of a successful FAQ lookup. Ephemeral;
// returned per query and never stored.
type MatchResult struct {
	Question string
	Answer   string

	// Score is the cosine similarity in [0,1].
	Score float64
}

// Engine answers free-text queries from a fixed FAQ corpus.
//
// Description:
//
//	Wraps a VectorSpace built once over all FAQ questions. Construction
//	is fatal on an empty or vocabulary-free corpus; once built the
//	engine is immutable and every Match call is a pure function of the
//	query text.
//
// Thread Safety: safe for concurrent use after NewEngine returns.
type Engine struct {
	faqs      []store.FAQRecord
	space     *VectorSpace
	threshold float64
}

// NewEngine builds the FAQ engine from the corpus.
//
// Inputs:
//   - faqs: the FAQ table; must contain at least one entry whose
//     question survives stop-word removal.
//   - threshold: minimum accepted cosine score; pass a non-positive
//     value to use DefaultThreshold.
//
// Outputs:
//   - *Engine: the ready engine.
//   - error: non-nil when the vector space cannot be built; the engine
//     must not serve queries in that case.
func NewEngine(faqs []store.FAQRecord, threshold float64) (*Engine, error) {
	questions := make([]string, len(faqs))
	for i, f := range faqs {
		questions[i] = f.Question
	}
	space, err := BuildVectorSpace(questions)
	if err != nil {
		return nil, fmt.Errorf("faq: engine construction failed: %w", err)
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	slog.Info("FAQ engine ready",
		"questions", space.Size(),
		"vocabulary", space.VocabularySize(),
		"threshold", threshold)
	return &Engine{faqs: faqs, space: space, threshold: threshold}, nil
}

// Match finds the closest known question to the query.
//
// Description:
//
//	Projects the query into the build-time vocabulary, scores cosine
//	similarity against every stored question, and selects the single
//	best entry. Ties break toward the earliest table position. The
//	boolean reports whether the best score cleared the threshold; the
//	result is returned either way so callers can observe sub-threshold
//	scores. A query with no vocabulary overlap scores zero everywhere
//	and returns nil.
//
// Outputs:
//   - *MatchResult: the best-scoring entry, or nil when every score is
//     zero. On a sub-threshold miss the entry is still populated.
//   - bool: true when the score cleared the threshold.
func (e *Engine) Match(query string) (*MatchResult, bool) {
	qv := e.space.Transform(query)

	best, bestScore := -1, 0.0
	for i := 0; i < e.space.Size(); i++ {
		score := e.space.Similarity(qv, i)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return nil, false
	}
	return &MatchResult{
		Question: e.faqs[best].Question,
		Answer:   e.faqs[best].Answer,
		Score:    bestScore,
	}, bestScore >= e.threshold
}

// Threshold returns the engine's configured similarity threshold.
func (e *Engine) Threshold() float64 { return e.threshold }
