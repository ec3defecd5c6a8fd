// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package faq matches free-text support queries against a fixed FAQ
// corpus by tf-idf weighted cosine similarity. The vector space is built
// once from all FAQ questions and is immutable afterwards; queries are
// projected into the build-time vocabulary, so unseen terms contribute
// nothing and the engine stays fully deterministic.
package faq

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Tokens are maximal runs of two or more word characters; single-letter
// fragments carry no signal in this corpus.
var reToken = regexp.MustCompile(`\w\w+`)

// VectorSpace is the precomputed tf-idf space over a question corpus.
//
// Description:
//
//	Holds a fixed alphabetically-ordered vocabulary, one smoothed
//	inverse-document-frequency weight per term, and one L2-normalized
//	weight vector per corpus question. Built in a single pass by
//	BuildVectorSpace; read-only afterwards.
//
// Thread Safety: safe for concurrent readers after construction. There
// is no rebuild operation.
type VectorSpace struct {
	vocabulary map[string]int
	idf        []float64
	vectors    [][]float64
}

// tokenize lowercases the text and returns its non-stop-word tokens.
func tokenize(text string) []string {
	var tokens []string
	for _, tok := range reToken.FindAllString(strings.ToLower(text), -1) {
		if isStopWord(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// BuildVectorSpace constructs the tf-idf space from the question corpus.
//
// Description:
//
//	Derives the vocabulary from all questions with stop words excluded,
//	computes smoothed idf weights (ln((1+N)/(1+df)) + 1), and encodes
//	every question as an L2-normalized term-weight vector. Vocabulary
//	order is alphabetical so that vector layout is reproducible across
//	runs.
//
// Inputs:
//   - questions: the full question corpus, in table order.
//
// Outputs:
//   - *VectorSpace: the immutable space.
//   - error: non-nil when the corpus is empty or no question yields a
//     single vocabulary term; there is nothing to match against.
func BuildVectorSpace(questions []string) (*VectorSpace, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("faq: cannot build vector space from an empty question corpus")
	}

	docTokens := make([][]string, len(questions))
	termSet := make(map[string]struct{})
	for i, q := range questions {
		docTokens[i] = tokenize(q)
		for _, tok := range docTokens[i] {
			termSet[tok] = struct{}{}
		}
	}
	if len(termSet) == 0 {
		return nil, fmt.Errorf("faq: question corpus has an empty vocabulary after stop-word removal")
	}

	terms := make([]string, 0, len(termSet))
	for term := range termSet {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
	}

	df := make([]int, len(terms))
	for _, tokens := range docTokens {
		seen := make(map[int]struct{}, len(tokens))
		for _, tok := range tokens {
			seen[vocabulary[tok]] = struct{}{}
		}
		for idx := range seen {
			df[idx]++
		}
	}

	n := float64(len(questions))
	idf := make([]float64, len(terms))
	for i, count := range df {
		idf[i] = math.Log((1+n)/(1+float64(count))) + 1
	}

	vs := &VectorSpace{vocabulary: vocabulary, idf: idf}
	vs.vectors = make([][]float64, len(questions))
	for i, tokens := range docTokens {
		vs.vectors[i] = vs.encode(tokens)
	}
	return vs, nil
}

// Transform projects free text into the build-time vocabulary and
// returns its L2-normalized tf-idf vector. Terms outside the vocabulary
// are dropped; a query with no known terms yields the zero vector.
func (vs *VectorSpace) Transform(text string) []float64 {
	return vs.encode(tokenize(text))
}

// Similarity returns the cosine similarity between a query vector from
// Transform and the corpus question at the given row.
func (vs *VectorSpace) Similarity(query []float64, row int) float64 {
	return dot(query, vs.vectors[row])
}

// Size returns the number of corpus questions in the space.
func (vs *VectorSpace) Size() int { return len(vs.vectors) }

// VocabularySize returns the number of distinct terms in the space.
func (vs *VectorSpace) VocabularySize() int { return len(vs.vocabulary) }

func (vs *VectorSpace) encode(tokens []string) []float64 {
	vec := make([]float64, len(vs.vocabulary))
	for _, tok := range tokens {
		if idx, ok := vs.vocabulary[tok]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for i, tf := range vec {
		if tf == 0 {
			continue
		}
		vec[i] = tf * vs.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// dot assumes both vectors are already L2-normalized, so the plain dot
// product is the cosine similarity.
func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
