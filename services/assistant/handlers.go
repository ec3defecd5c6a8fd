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
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Basit343/E-Commerce-Assistant/services/catalog"
)

// ErrorResponse is the uniform error envelope for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// QueryRequest is the body of POST /v1/assistant/query.
type QueryRequest struct {
	Query string `json:"query"`
}

// ProductsResponse is the body of GET /v1/assistant/products.
type ProductsResponse struct {
	Count      int      `json:"count"`
	Categories []string `json:"categories"`
	Products   any      `json:"products"`
}

// Handlers exposes the assistant over HTTP.
//
// Thread Safety: safe for concurrent use; all state lives in the
// immutable Service.
type Handlers struct {
	service *Service
}

// NewHandlers wraps a ready Service.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// getOrCreateRequestID returns the inbound X-Request-ID or mints one.
func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// HandleQuery handles POST /v1/assistant/query.
//
// Description:
//
//	Answers a free-text question. The body must carry a non-empty query
//	string; everything else about the question is free-form. Engine
//	failures surface inside the answer text, so this endpoint only
//	errors on malformed input.
//
// Response:
//
//	200 OK: Response (answer, tool, session_id)
//	400 Bad Request: missing or empty query
func (h *Handlers) HandleQuery(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleQuery")

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "request body must be JSON with a query field",
			Code:  "INVALID_BODY",
		})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "query must not be empty",
			Code:  "MISSING_PARAMETER",
		})
		return
	}

	resp := h.service.ProcessQuery(c.Request.Context(), req.Query)
	logger.Info("query answered",
		slog.String("session_id", resp.SessionID),
		slog.String("tool", resp.Tool),
	)
	c.JSON(http.StatusOK, resp)
}

// HandleListProducts handles GET /v1/assistant/products.
//
// Description:
//
//	Returns the product table and the category vocabulary. Intended for
//	UIs that want to show the raw catalog next to the assistant.
//
// Query parameters:
//
//	category - optional; keep only products in this category (case-insensitive)
//	limit - optional; cap the number of returned products
func (h *Handlers) HandleListProducts(c *gin.Context) {
	spec := catalog.FilterSpec{Category: c.Query("category")}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "limit must be a non-negative integer",
				Code:  "INVALID_PARAMETER",
			})
			return
		}
		spec.Limit = &n
	}

	products := catalog.Apply(h.service.Products(), spec)
	c.JSON(http.StatusOK, ProductsResponse{
		Count:      len(products),
		Categories: h.service.Categories(),
		Products:   products,
	})
}

// HandleHealth handles GET /v1/assistant/health. Liveness only.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleReady handles GET /v1/assistant/ready.
//
// Description:
//
//	Readiness means both tables are loaded. An empty product table is
//	unusual but serves "no results" answers, so only a missing store
//	makes the service unready.
func (h *Handlers) HandleReady(c *gin.Context) {
	if h.service == nil || h.service.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"products": len(h.service.Products()),
	})
}
