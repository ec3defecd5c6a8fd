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
	"sort"
	"strings"

	"github.com/Basit343/E-Commerce-Assistant/services/store"
)

// Apply runs a FilterSpec against the product table.
//
// Description:
//
//	Executes the fixed pipeline: category → price bounds → rating
//	bounds → stock → sort → limit. Filtering stages run regardless of
//	order (they commute); sort always precedes limit. The sort is
//	stable, so rows that compare equal keep their source order, and an
//	unset sort key preserves source order entirely. The input slice is
//	never mutated.
//
// Inputs:
//   - products: the full product table, in source order.
//   - spec: the filter to apply. A zero-valued spec returns a copy of
//     the whole table.
//
// Outputs:
//   - []store.ProductRecord: the filtered, sorted, limited rows.
//
// Thread Safety: safe for concurrent use; operates on a private copy.
func Apply(products []store.ProductRecord, spec FilterSpec) []store.ProductRecord {
	out := make([]store.ProductRecord, 0, len(products))
	for _, p := range products {
		if spec.Category != "" && !strings.EqualFold(p.Category, spec.Category) {
			continue
		}
		if spec.MinPrice != nil && p.Price < *spec.MinPrice {
			continue
		}
		if spec.MaxPrice != nil && p.Price > *spec.MaxPrice {
			continue
		}
		if spec.MinRating != nil && p.Rating < *spec.MinRating {
			continue
		}
		if spec.MaxRating != nil && p.Rating > *spec.MaxRating {
			continue
		}
		if spec.InStock != nil && p.InStock() != *spec.InStock {
			continue
		}
		out = append(out, p)
	}

	if spec.Sort != nil {
		sortProducts(out, *spec.Sort)
	}

	if spec.Limit != nil && *spec.Limit < len(out) {
		if *spec.Limit < 0 {
			return out[:0]
		}
		out = out[:*spec.Limit]
	}
	return out
}

func sortProducts(products []store.ProductRecord, key SortKey) {
	less := func(a, b store.ProductRecord) bool { return false }
	switch key.Field {
	case SortByRating:
		less = func(a, b store.ProductRecord) bool { return a.Rating < b.Rating }
	case SortByPrice:
		less = func(a, b store.ProductRecord) bool { return a.Price < b.Price }
	case SortBySales:
		less = func(a, b store.ProductRecord) bool { return a.SalesCount < b.SalesCount }
	}
	sort.SliceStable(products, func(i, j int) bool {
		if key.Ascending {
			return less(products[i], products[j])
		}
		return less(products[j], products[i])
	})
}
