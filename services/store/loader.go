// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// requiredProductColumns are the normalized column names the product CSV
// must provide. Order does not matter; extra columns are ignored.
var requiredProductColumns = []string{
	"product_id", "name", "category", "price", "sales_count", "rating", "stock_level",
}

// requiredFAQColumns are the normalized column names the FAQ CSV must provide.
var requiredFAQColumns = []string{"question", "answer"}

// normalizeHeader converts a CSV header cell to lower_snake_case so that
// "Product ID", "product id" and "product_id" all resolve to the same column.
func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	return strings.ReplaceAll(h, " ", "_")
}

// columnIndex builds a normalized-name → position map for a header row and
// verifies every required column is present.
func columnIndex(header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[normalizeHeader(h)] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}
	return idx, nil
}

// ParseProducts reads product rows from CSV data.
//
// Description:
//
//	The first record is treated as a header and normalized to
//	lower_snake_case. Every required column must be present or parsing
//	fails. price and rating are parsed as floats, sales_count as an
//	integer; a malformed numeric cell fails the whole load (a corrupt
//	catalog is a configuration error, not something to paper over).
//
// Inputs:
//
//	r - CSV data. Must not be nil.
//
// Outputs:
//
//	[]ProductRecord - Parsed rows in file order.
//	error - Non-nil on malformed CSV, missing columns, or bad numeric cells.
func ParseProducts(r io.Reader) ([]ProductRecord, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("store: reading product CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("store: product CSV is empty")
	}

	idx, err := columnIndex(rows[0], requiredProductColumns)
	if err != nil {
		return nil, fmt.Errorf("store: product CSV: %w", err)
	}

	products := make([]ProductRecord, 0, len(rows)-1)
	for line, row := range rows[1:] {
		price, err := strconv.ParseFloat(strings.TrimSpace(row[idx["price"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("store: product CSV line %d: parsing price: %w", line+2, err)
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(row[idx["rating"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("store: product CSV line %d: parsing rating: %w", line+2, err)
		}
		sales, err := strconv.Atoi(strings.TrimSpace(row[idx["sales_count"]]))
		if err != nil {
			return nil, fmt.Errorf("store: product CSV line %d: parsing sales_count: %w", line+2, err)
		}

		products = append(products, ProductRecord{
			ID:         strings.TrimSpace(row[idx["product_id"]]),
			Name:       strings.TrimSpace(row[idx["name"]]),
			Category:   strings.TrimSpace(row[idx["category"]]),
			Price:      price,
			SalesCount: sales,
			Rating:     rating,
			StockLevel: strings.TrimSpace(row[idx["stock_level"]]),
		})
	}

	return products, nil
}

// ParseFAQs reads question/answer rows from CSV data.
//
// Outputs:
//
//	[]FAQRecord - Parsed rows in file order. Rows with an empty question
//	are skipped (they can never be matched).
//	error - Non-nil on malformed CSV or missing columns.
func ParseFAQs(r io.Reader) ([]FAQRecord, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("store: reading FAQ CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("store: FAQ CSV is empty")
	}

	idx, err := columnIndex(rows[0], requiredFAQColumns)
	if err != nil {
		return nil, fmt.Errorf("store: FAQ CSV: %w", err)
	}

	faqs := make([]FAQRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		question := strings.TrimSpace(row[idx["question"]])
		if question == "" {
			continue
		}
		faqs = append(faqs, FAQRecord{
			Question: question,
			Answer:   strings.TrimSpace(row[idx["answer"]]),
		})
	}

	return faqs, nil
}

// LoadProducts reads and parses the product CSV at path.
func LoadProducts(path string) ([]ProductRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: opening product CSV: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close product CSV", slog.String("path", path), slog.String("error", closeErr.Error()))
		}
	}()

	products, err := ParseProducts(f)
	if err != nil {
		return nil, err
	}
	slog.Info("product catalog loaded",
		slog.String("path", path),
		slog.Int("rows", len(products)),
	)
	return products, nil
}

// LoadFAQs reads and parses the FAQ CSV at path.
func LoadFAQs(path string) ([]FAQRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: opening FAQ CSV: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close FAQ CSV", slog.String("path", path), slog.String("error", closeErr.Error()))
		}
	}()

	faqs, err := ParseFAQs(f)
	if err != nil {
		return nil, err
	}
	slog.Info("FAQ table loaded",
		slog.String("path", path),
		slog.Int("rows", len(faqs)),
	)
	return faqs, nil
}
