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
	"fmt"
	"strconv"
	"strings"

	"github.com/Basit343/E-Commerce-Assistant/services/store"
)

// NoResultsMessage is returned by Format when the filter matched nothing.
const NoResultsMessage = "No products found matching your criteria."

// Format renders a filtered product list as a human-readable report.
//
// Description:
//
//	Produces a header naming the result count and the filter clauses
//	that applied, followed by one block per product. Record prices
//	always render with two decimals and ratings with one, so the same
//	row formats identically on every call. The stock level is the
//	stored string verbatim; values like "Low Stock" pass through
//	unchanged.
//
// Inputs:
//   - products: the rows returned by Apply, already ordered and limited.
//   - spec: the filter that produced them, used for the header clause.
//
// Outputs:
//   - string: the report, or NoResultsMessage when products is empty.
func Format(products []store.ProductRecord, spec FilterSpec) string {
	if len(products) == 0 {
		return NoResultsMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d products%s:\n\n", len(products), filterDescription(spec))

	entries := make([]string, 0, len(products))
	for _, p := range products {
		entries = append(entries, fmt.Sprintf(
			"- %s (ID: %s)\n  Category: %s\n  Price: $%.2f\n  Rating: %.1f/5.0\n  Stock: %s\n  Sales: %d\n",
			p.Name, p.ID, p.Category, p.Price, p.Rating, p.StockLevel, p.SalesCount))
	}
	b.WriteString(strings.Join(entries, "\n"))
	return b.String()
}

// filterDescription renders the active filter clauses as a " for ..."
// suffix, or "" when no clause applies.
func filterDescription(spec FilterSpec) string {
	var parts []string
	if spec.Category != "" {
		parts = append(parts, fmt.Sprintf("category '%s'", spec.Category))
	}
	switch {
	case spec.MinPrice != nil && spec.MaxPrice != nil:
		parts = append(parts, fmt.Sprintf("price between $%s and $%s",
			trimFloat(*spec.MinPrice), trimFloat(*spec.MaxPrice)))
	case spec.MinPrice != nil:
		parts = append(parts, fmt.Sprintf("price above $%s", trimFloat(*spec.MinPrice)))
	case spec.MaxPrice != nil:
		parts = append(parts, fmt.Sprintf("price below $%s", trimFloat(*spec.MaxPrice)))
	}
	if spec.MinRating != nil {
		parts = append(parts, fmt.Sprintf("rating above %s", trimFloat(*spec.MinRating)))
	}
	if spec.InStock != nil {
		if *spec.InStock {
			parts = append(parts, "in stock")
		} else {
			parts = append(parts, "out of stock")
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " for " + strings.Join(parts, ", ")
}

// trimFloat renders a bound without trailing zeros: 500 -> "500",
// 4.5 -> "4.5".
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
