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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics for Query Handling
// =============================================================================

var (
	// queriesTotal counts processed queries by the tool that answered them.
	// Labels: tool (product_search_tool, faq_query_tool)
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assistant",
		Subsystem: "query",
		Name:      "total",
		Help:      "Total queries processed by answering tool",
	}, []string{"tool"})

	// routerDecisionsTotal counts pre-router decisions by rule type and tool.
	// Labels: rule_type (forced, keyword, default), tool
	routerDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assistant",
		Subsystem: "router",
		Name:      "decisions_total",
		Help:      "Pre-router decisions by rule type and selected tool",
	}, []string{"rule_type", "tool"})

	// toolLatencySeconds measures per-tool execution latency.
	// Labels: tool
	toolLatencySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "assistant",
		Subsystem: "tool",
		Name:      "latency_seconds",
		Help:      "Tool execution latency",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"tool"})

	// faqSimilarityScore tracks the best cosine score per FAQ lookup,
	// hits and misses alike, so threshold tuning has data to work from.
	faqSimilarityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "assistant",
		Subsystem: "faq",
		Name:      "similarity_score",
		Help:      "Best cosine similarity per FAQ lookup",
		Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
	})
)

// RecordQuery records a completed query and the tool that answered it.
func RecordQuery(tool string, durationSec float64) {
	queriesTotal.WithLabelValues(tool).Inc()
	toolLatencySeconds.WithLabelValues(tool).Observe(durationSec)
}

// RecordRouterDecision records a pre-router decision.
func RecordRouterDecision(ruleType, tool string) {
	routerDecisionsTotal.WithLabelValues(ruleType, tool).Inc()
}

// RecordFAQSimilarity records the best cosine score of an FAQ lookup.
func RecordFAQSimilarity(score float64) {
	faqSimilarityScore.Observe(score)
}
