// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// ============================================================================
// Extraction patterns
// ============================================================================
//
// All patterns are compiled once at package load. Rating patterns are
// anchored on the word "rating" so that bare numbers elsewhere in the
// query don't bleed into rating bounds; price patterns are deliberately
// not anchored, matching the comparator wherever it appears.

var (
	rePriceMin   = regexp.MustCompile(`(?i)(above|over|more than|>)\s*\$?(\d+)`)
	rePriceMax   = regexp.MustCompile(`(?i)(below|under|less than|<)\s*\$?(\d+)`)
	rePriceRange = regexp.MustCompile(`(?i)\$(\d+)\s*(-|to)\s*\$?(\d+)`)

	reRatingMin = regexp.MustCompile(`(?i)rating\s*(above|over|more than|>)\s*(\d+\.?\d*)`)
	reRatingMax = regexp.MustCompile(`(?i)rating\s*(below|under|less than|<)\s*(\d+\.?\d*)`)

	reInStock    = regexp.MustCompile(`(?i)in\s*stock`)
	reOutOfStock = regexp.MustCompile(`(?i)out\s*of\s*stock`)

	reLimit = regexp.MustCompile(`(?i)(show|list|display)\s*(\d+)`)

	// Substring match, not word-anchored: "everything" clears the limit
	// the same way "every" does.
	reUnlimited = regexp.MustCompile(`(?i)(all|every)`)
)

// sortPattern maps a phrasing class to its sort key. Patterns are
// evaluated in slice order and the first match wins, so the more
// specific rating phrasings sit ahead of the generic price ones.
type sortPattern struct {
	re  *regexp.Regexp
	key SortKey
}

var sortPatterns = []sortPattern{
	{regexp.MustCompile(`(?i)(highest|best|top)\s*rated`), SortKey{Field: SortByRating, Ascending: false}},
	{regexp.MustCompile(`(?i)(lowest|worst)\s*rated`), SortKey{Field: SortByRating, Ascending: true}},
	{regexp.MustCompile(`(?i)(highest|most expensive|priciest)`), SortKey{Field: SortByPrice, Ascending: false}},
	{regexp.MustCompile(`(?i)(lowest|cheapest|least expensive)`), SortKey{Field: SortByPrice, Ascending: true}},
	{regexp.MustCompile(`(?i)(best|top|most|highest)\s*selling`), SortKey{Field: SortBySales, Ascending: false}},
}

// Extract builds a FilterSpec from a free-text query.
//
// Description:
//
//	Scans the query against the known category vocabulary and the fixed
//	numeric/keyword patterns above. Extraction never fails: unrecognized
//	phrasing leaves the corresponding field unset. A price range like
//	"$500-$1000" overrides any single-sided price bound matched earlier
//	in the same query, and "out of stock" wins over "in stock" when both
//	phrases appear.
//
// Inputs:
//   - query: raw user text.
//   - categories: the catalog's category vocabulary, matched
//     case-insensitively as substrings.
//
// Outputs:
//   - FilterSpec: the structured filter, always well-formed.
//
// Thread Safety: safe for concurrent use; all state is package-level
// compiled patterns.
func Extract(query string, categories []string) FilterSpec {
	spec := FilterSpec{Query: query}
	lower := strings.ToLower(query)

	for _, cat := range categories {
		if strings.Contains(lower, strings.ToLower(cat)) {
			spec.Category = cat
			break
		}
	}

	if m := rePriceMin.FindStringSubmatch(query); m != nil {
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			spec.MinPrice = floatPtr(v)
		}
	}
	if m := rePriceMax.FindStringSubmatch(query); m != nil {
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			spec.MaxPrice = floatPtr(v)
		}
	}
	// Explicit ranges override whatever the single-sided patterns saw.
	if m := rePriceRange.FindStringSubmatch(query); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[3], 64)
		if errLo == nil && errHi == nil {
			spec.MinPrice = floatPtr(lo)
			spec.MaxPrice = floatPtr(hi)
		}
	}

	if m := reRatingMin.FindStringSubmatch(query); m != nil {
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			spec.MinRating = floatPtr(v)
		}
	}
	if m := reRatingMax.FindStringSubmatch(query); m != nil {
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			spec.MaxRating = floatPtr(v)
		}
	}

	// Checked in this order so "out of stock" (which also contains the
	// substring "stock") takes precedence when both phrases appear.
	if reInStock.MatchString(query) {
		spec.InStock = boolPtr(true)
	}
	if reOutOfStock.MatchString(query) {
		spec.InStock = boolPtr(false)
	}

	for _, p := range sortPatterns {
		if p.re.MatchString(query) {
			key := p.key
			spec.Sort = &key
			break
		}
	}

	switch {
	case reLimit.MatchString(query):
		m := reLimit.FindStringSubmatch(query)
		if n, err := strconv.Atoi(m[2]); err == nil {
			spec.Limit = intPtr(n)
		}
	case reUnlimited.MatchString(query):
		// explicit "all"/"every": leave Limit nil (unbounded)
	default:
		spec.Limit = intPtr(DefaultLimit)
	}

	return spec
}
