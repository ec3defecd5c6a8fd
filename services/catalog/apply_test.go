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
	"reflect"
	"testing"

	"github.com/Basit343/E-Commerce-Assistant/services/store"
)

func testProducts() []store.ProductRecord {
	return []store.ProductRecord{
		{ID: "P001", Name: "Wireless Mouse", Category: "Electronics", Price: 24.99, SalesCount: 310, Rating: 4.2, StockLevel: "in stock"},
		{ID: "P002", Name: "Mechanical Keyboard", Category: "Electronics", Price: 89.99, SalesCount: 150, Rating: 4.7, StockLevel: "in stock"},
		{ID: "P003", Name: "Desk Lamp", Category: "Home & Kitchen", Price: 19.50, SalesCount: 420, Rating: 4.0, StockLevel: "out of stock"},
		{ID: "P004", Name: "Go in Practice", Category: "Books", Price: 39.00, SalesCount: 85, Rating: 4.7, StockLevel: "in stock"},
		{ID: "P005", Name: "USB-C Hub", Category: "Electronics", Price: 45.00, SalesCount: 210, Rating: 3.8, StockLevel: "Out Of Stock"},
	}
}

func TestApplyZeroSpecCopiesTable(t *testing.T) {
	products := testProducts()
	got := Apply(products, FilterSpec{})
	if len(got) != len(products) {
		t.Fatalf("expected %d rows, got %d", len(products), len(got))
	}
	for i := range got {
		if got[i].ID != products[i].ID {
			t.Fatalf("row %d: expected %s, got %s (source order must be preserved)", i, products[i].ID, got[i].ID)
		}
	}

	// The returned slice must be a copy; mutating it must not touch the
	// source table.
	got[0].Name = "mutated"
	if products[0].Name == "mutated" {
		t.Fatal("Apply must not alias the source table")
	}
}

func TestApplyDefaultLimitReturnsFirstTen(t *testing.T) {
	products := make([]store.ProductRecord, 15)
	for i := range products {
		products[i] = store.ProductRecord{ID: fmt.Sprintf("P%03d", i+1), StockLevel: "in stock"}
	}
	got := Apply(products, FilterSpec{Limit: intPtr(DefaultLimit)})
	if len(got) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(got))
	}
	if got[0].ID != "P001" || got[9].ID != "P010" {
		t.Fatalf("expected first 10 rows in source order, got %s..%s", got[0].ID, got[9].ID)
	}
}

func TestApplyUnlimitedKeepsAllRows(t *testing.T) {
	products := make([]store.ProductRecord, 15)
	for i := range products {
		products[i] = store.ProductRecord{ID: fmt.Sprintf("P%03d", i+1), StockLevel: "in stock"}
	}
	spec := Extract("show me all products", nil)
	got := Apply(products, spec)
	if len(got) != 15 {
		t.Fatalf("expected all 15 rows, got %d", len(got))
	}
}

func TestApplyCategoryIsCaseInsensitive(t *testing.T) {
	got := Apply(testProducts(), FilterSpec{Category: "electronics"})
	if len(got) != 3 {
		t.Fatalf("expected 3 electronics rows, got %d", len(got))
	}
	for _, p := range got {
		if p.Category != "Electronics" {
			t.Errorf("unexpected category %q", p.Category)
		}
	}
}

func TestApplyPriceBoundsAreInclusive(t *testing.T) {
	got := Apply(testProducts(), FilterSpec{MinPrice: floatPtr(24.99), MaxPrice: floatPtr(45.00)})
	want := []string{"P001", "P004", "P005"}
	ids := recordIDs(got)
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
}

func TestApplyRatingBounds(t *testing.T) {
	got := Apply(testProducts(), FilterSpec{MinRating: floatPtr(4.5)})
	ids := recordIDs(got)
	want := []string{"P002", "P004"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
}

func TestApplyStockSentinelIsCaseInsensitive(t *testing.T) {
	got := Apply(testProducts(), FilterSpec{InStock: boolPtr(false)})
	ids := recordIDs(got)
	// P005 carries "Out Of Stock" in mixed case and must still count as
	// unavailable.
	want := []string{"P003", "P005"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
}

func TestApplySortIsStableOnTies(t *testing.T) {
	got := Apply(testProducts(), FilterSpec{Sort: &SortKey{Field: SortByRating, Ascending: false}})
	ids := recordIDs(got)
	// P002 and P004 share rating 4.7; P002 comes first in the table and
	// must stay first.
	want := []string{"P002", "P004", "P001", "P003", "P005"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
}

func TestApplySortAscendingByPrice(t *testing.T) {
	got := Apply(testProducts(), FilterSpec{Sort: &SortKey{Field: SortByPrice, Ascending: true}})
	ids := recordIDs(got)
	want := []string{"P003", "P001", "P004", "P005", "P002"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
}

func TestApplyLimitTrimsPostSortOrder(t *testing.T) {
	spec := FilterSpec{
		Sort:  &SortKey{Field: SortBySales, Ascending: false},
		Limit: intPtr(2),
	}
	got := Apply(testProducts(), spec)
	ids := recordIDs(got)
	want := []string{"P003", "P001"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected top-2 by sales %v, got %v", want, ids)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	products := testProducts()
	spec := Extract("show 3 electronics above $20, highest rated", testCategories)

	first := Apply(products, spec)
	second := Apply(products, spec)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated Apply diverged:\nfirst:  %v\nsecond: %v", recordIDs(first), recordIDs(second))
	}
}

func TestApplyEmptyTableMatchesNothing(t *testing.T) {
	got := Apply(nil, Extract("show me all products", testCategories))
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
}

func recordIDs(products []store.ProductRecord) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}
