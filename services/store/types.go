// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store holds the in-memory tabular data the assistant queries:
// the product catalog and the FAQ table, loaded from CSV files and
// column-normalized at startup. Both tables are immutable once loaded.
package store

import "strings"

// OutOfStockSentinel is the stock_level value that marks a product as
// unavailable. Comparison is case-insensitive; any other value means the
// product is in stock.
const OutOfStockSentinel = "out of stock"

// ProductRecord is a single row of the product catalog.
//
// Thread Safety: ProductRecord is a value type; records are immutable for
// the lifetime of a query.
type ProductRecord struct {
	// ID is the unique, stable product identifier.
	ID string `json:"product_id"`

	// Name is the display name.
	Name string `json:"name"`

	// Category is the product category. Compared case-insensitively.
	Category string `json:"category"`

	// Price is the unit price in dollars. Non-negative.
	Price float64 `json:"price"`

	// SalesCount is the number of units sold. Non-negative.
	SalesCount int `json:"sales_count"`

	// Rating is the average customer rating, conventionally 0.0–5.0.
	Rating float64 `json:"rating"`

	// StockLevel is the raw stock description (e.g. "In Stock", "Low Stock",
	// "Out of Stock"). See OutOfStockSentinel.
	StockLevel string `json:"stock_level"`
}

// InStock reports whether the record's stock level is anything other than
// the out-of-stock sentinel.
func (p ProductRecord) InStock() bool {
	return !strings.EqualFold(strings.TrimSpace(p.StockLevel), OutOfStockSentinel)
}

// FAQRecord is a single question/answer pair from the FAQ table.
type FAQRecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
