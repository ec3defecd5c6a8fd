// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command assistant runs the e-commerce customer assistant.
//
// The assistant answers free-text questions from two engines: a
// rule-based product catalog filter and a TF-IDF FAQ matcher. With an
// OpenAI key configured, an LLM picks the engine through function
// calling; without one, a deterministic router does.
//
// Usage:
//
//	assistant serve
//	assistant serve --port 9090 --debug
//	assistant ask "show me the top 5 electronics under $100"
//	assistant chat
//
// With an LLM (optional):
//
//	OPENAI_API_KEY=sk-... assistant serve
//	OPENAI_API_KEY=sk-... OPENAI_MODEL=gpt-4o assistant chat
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/assistant/health
//
//	# Ask a question
//	curl -X POST http://localhost:8080/v1/assistant/query \
//	  -H "Content-Type: application/json" \
//	  -d '{"query": "what is your return policy?"}'
//
//	# Browse the catalog
//	curl http://localhost:8080/v1/assistant/products | jq
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/Basit343/E-Commerce-Assistant/services/assistant"
	"github.com/Basit343/E-Commerce-Assistant/services/llm"
	"github.com/Basit343/E-Commerce-Assistant/services/store"
)

// Flag values shared across commands.
var (
	productsPath string
	faqsPath     string
	noLLM        bool
	servePort    int
	serveDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "E-commerce customer assistant (catalog search + FAQ matching)",
	Long: `Answers customer questions from a product catalog and an FAQ knowledge base.

Product questions run through a rule-based filter extractor; support
questions run through a TF-IDF similarity matcher. Set OPENAI_API_KEY
to let an LLM route between them and phrase the answers.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assistant HTTP API server",
	Run:   runServeCommand,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	Run:   runAskCommand,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question loop",
	Run:   runChatCommand,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&productsPath, "products", "data/products.csv", "Path to the product catalog CSV")
	rootCmd.PersistentFlags().StringVar(&faqsPath, "faqs", "data/faqs.csv", "Path to the FAQ CSV")
	rootCmd.PersistentFlags().BoolVar(&noLLM, "no-llm", false, "Route with the deterministic rules only, even when OPENAI_API_KEY is set")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug mode")

	rootCmd.AddCommand(serveCmd, askCmd, chatCmd)
}

// buildService loads both CSV tables and wires the assistant. The LLM
// client is attached only when OPENAI_API_KEY is set; otherwise the
// deterministic router answers alone.
func buildService(ctx context.Context) (*assistant.Service, error) {
	st, err := store.Open(productsPath, faqsPath)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	if noLLM {
		return assistant.New(ctx, st, nil, logger)
	}
	if os.Getenv("OPENAI_API_KEY") == "" {
		slog.Info("OPENAI_API_KEY not set, running with deterministic routing only")
		return assistant.New(ctx, st, nil, logger)
	}

	client, err := llm.NewOpenAIClient()
	if err != nil {
		slog.Warn("OpenAI client unavailable, falling back to deterministic routing",
			slog.String("error", err.Error()),
		)
		return assistant.New(ctx, st, nil, logger)
	}
	return assistant.New(ctx, st, client, logger)
}

func runServeCommand(_ *cobra.Command, _ []string) {
	if serveDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// W3C TraceContext propagation so trace context flows from incoming
	// headers through all handlers.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	ctx := context.Background()
	svc, err := buildService(ctx)
	if err != nil {
		slog.Error("Failed to build assistant service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	handlers := assistant.NewHandlers(svc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("ecommerce-assistant"))
	if serveDebug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	assistant.RegisterRoutes(v1, handlers)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	printBanner(servePort, len(svc.Products()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		slog.Info("Shutting down assistant server")
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%d", servePort)
	slog.Info("Starting assistant server", slog.String("address", addr))
	if err := router.Run(addr); err != nil {
		slog.Error("Failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func printBanner(port, products int) {
	llmStatus := "DISABLED (set OPENAI_API_KEY to enable)"
	if os.Getenv("OPENAI_API_KEY") != "" {
		llmStatus = "ENABLED"
	}

	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                  E-COMMERCE ASSISTANT SERVER                      ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  Catalog search + FAQ matching with optional LLM routing.         ║
║  Products loaded: %-6d                                          ║
║  LLM routing: %-49s ║
║                                                                   ║
║  Quick Start:                                                     ║
║  ┌─────────────────────────────────────────────────────────────┐  ║
║  │ # Health check                                              │  ║
║  │ curl http://localhost:%-5d/v1/assistant/health             │  ║
║  │                                                             │  ║
║  │ # Ask a question                                            │  ║
║  │ curl -X POST localhost:%-5d/v1/assistant/query \           │  ║
║  │   -d '{"query": "what is your return policy?"}'             │  ║
║  └─────────────────────────────────────────────────────────────┘  ║
║                                                                   ║
╚═══════════════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, products, llmStatus, port, port)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
