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

import "fmt"

// Store is the in-memory tabular store for the assistant.
//
// Description:
//
//	Holds the loaded product catalog and FAQ table. Both tables are
//	read-only after construction; the query engines receive views over
//	them and never mutate rows.
//
// Thread Safety: Safe for concurrent use (all state is read-only after
// construction).
type Store struct {
	products []ProductRecord
	faqs     []FAQRecord
}

// New builds a Store over already-parsed tables.
func New(products []ProductRecord, faqs []FAQRecord) *Store {
	return &Store{products: products, faqs: faqs}
}

// Open loads both CSV files and builds a Store.
//
// Outputs:
//
//	*Store - The loaded store.
//	error - Non-nil if either file fails to load or parse.
func Open(productPath, faqPath string) (*Store, error) {
	products, err := LoadProducts(productPath)
	if err != nil {
		return nil, err
	}
	faqs, err := LoadFAQs(faqPath)
	if err != nil {
		return nil, err
	}
	return New(products, faqs), nil
}

// Products returns the product table in source order. Callers must treat
// the returned slice as read-only.
func (s *Store) Products() []ProductRecord {
	return s.products
}

// FAQs returns the FAQ table in source order. Callers must treat the
// returned slice as read-only.
func (s *Store) FAQs() []FAQRecord {
	return s.faqs
}

// Categories returns the unique product categories in table-encounter
// order. The filter extractor scans these in order, so the ordering is
// part of the category-matching contract.
func (s *Store) Categories() []string {
	seen := make(map[string]bool, len(s.products))
	var categories []string
	for _, p := range s.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories
}

// PriceRange returns the minimum and maximum product price.
func (s *Store) PriceRange() (minPrice, maxPrice float64, err error) {
	if len(s.products) == 0 {
		return 0, 0, fmt.Errorf("store: product table is empty")
	}
	minPrice, maxPrice = s.products[0].Price, s.products[0].Price
	for _, p := range s.products[1:] {
		if p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
	}
	return minPrice, maxPrice, nil
}

// RatingRange returns the minimum and maximum product rating.
func (s *Store) RatingRange() (minRating, maxRating float64, err error) {
	if len(s.products) == 0 {
		return 0, 0, fmt.Errorf("store: product table is empty")
	}
	minRating, maxRating = s.products[0].Rating, s.products[0].Rating
	for _, p := range s.products[1:] {
		if p.Rating < minRating {
			minRating = p.Rating
		}
		if p.Rating > maxRating {
			maxRating = p.Rating
		}
	}
	return minRating, maxRating, nil
}

// StockLevels returns the unique stock_level values in table-encounter order.
func (s *Store) StockLevels() []string {
	seen := make(map[string]bool, len(s.products))
	var levels []string
	for _, p := range s.products {
		if seen[p.StockLevel] {
			continue
		}
		seen[p.StockLevel] = true
		levels = append(levels, p.StockLevel)
	}
	return levels
}
