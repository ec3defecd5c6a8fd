// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog turns free-text product queries into structured filter
// specifications and applies them to the product table. Extraction is
// purely rule-based: substring scans over the known category vocabulary
// plus a fixed set of numeric and keyword patterns. Anything the rules
// don't recognize is simply left unset, so a query can never fail to
// produce a well-formed FilterSpec.
package catalog

// SortField identifies a sortable product column.
type SortField string

const (
	// SortByRating sorts on the rating column.
	SortByRating SortField = "rating"

	// SortByPrice sorts on the price column.
	SortByPrice SortField = "price"

	// SortBySales sorts on the sales_count column.
	SortBySales SortField = "sales_count"
)

// SortKey pairs a sort field with a direction.
type SortKey struct {
	Field SortField

	// Ascending is true for low-to-high ordering.
	Ascending bool
}

// DefaultLimit is the result cap applied when a query names no explicit
// limit and does not ask for "all"/"every" results.
const DefaultLimit = 10

// FilterSpec is the structured form of a free-text product query.
//
// Description:
//
//	Every field is optional; a nil pointer (or empty Category) means "no
//	constraint". A zero-valued FilterSpec is a well-formed match-everything
//	specification — Apply must never fail on it. Specs are created fresh
//	per query by Extract, consumed by Apply/Format, then discarded.
//
// Thread Safety: FilterSpec is a value type; treat it as immutable once
// returned from Extract.
type FilterSpec struct {
	// Category is the exact catalog category to match (case-insensitive).
	// Empty means no category constraint.
	Category string

	// MinPrice and MaxPrice are inclusive price bounds.
	MinPrice *float64
	MaxPrice *float64

	// MinRating and MaxRating are inclusive rating bounds.
	MinRating *float64
	MaxRating *float64

	// InStock is a tri-state stock constraint: true = must be in stock,
	// false = must be out of stock, nil = no constraint.
	InStock *bool

	// Sort is the requested ordering, or nil for source order.
	Sort *SortKey

	// Limit caps the result count after filtering and sorting. nil means
	// unlimited.
	Limit *int

	// Query is the original query text, retained for diagnostics.
	Query string
}

// floatPtr, boolPtr, and intPtr are small helpers for building optional
// FilterSpec fields.
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }
func intPtr(v int) *int           { return &v }
