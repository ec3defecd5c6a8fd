// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Basit343/E-Commerce-Assistant/services/assistant"
)

func runAskCommand(_ *cobra.Command, args []string) {
	question := strings.Join(args, " ")

	ctx := context.Background()
	svc, err := buildService(ctx)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("Asking: %s\n", question)
	fmt.Println("---")

	resp := askWithSpinner(ctx, svc, question)

	fmt.Printf("\nAnswer:\n%s\n", resp.Answer)
	if resp.Tool != "" {
		fmt.Printf("\n[tool: %s, session: %s]\n", resp.Tool, resp.SessionID)
	}
}

func runChatCommand(_ *cobra.Command, args []string) {
	if len(args) > 0 {
		fmt.Printf("Warning: Unexpected arguments ignored: %v\n", args)
		fmt.Println("Use 'assistant ask <question>' for a one-shot question.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		fmt.Println("\nGoodbye.")
		os.Exit(0)
	}()

	svc, err := buildService(ctx)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Println("E-commerce assistant. Ask about products or policies.")
	fmt.Println("Type 'exit' or 'quit' to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "exit" || query == "quit" || query == "q" {
			fmt.Println("Goodbye.")
			break
		}

		resp := askWithSpinner(ctx, svc, query)
		fmt.Printf("\n%s\n\n", resp.Answer)
	}
}

// askWithSpinner runs one query with a terminal spinner. The engines
// themselves are instant; the spinner only matters when an LLM round
// trip is in the path.
func askWithSpinner(ctx context.Context, svc *assistant.Service, query string) assistant.Response {
	done := make(chan bool)
	go showSpinner("Thinking", done)

	resp := svc.ProcessQuery(ctx, query)

	done <- true
	fmt.Print("\r                                                \r")
	return resp
}

// showSpinner displays a small animation until done is signalled.
func showSpinner(msg string, done chan bool) {
	chars := []string{"▖", "▘", "▝", "▗"}
	i := 0

	fmt.Print("\033[?25l")
	defer fmt.Print("\033[?25h")

	for {
		select {
		case <-done:
			return
		default:
			// \r = return to start of line, \033[K = clear to end
			fmt.Printf("\r%s  %s... \033[K", chars[i%len(chars)], msg)
			i++
			time.Sleep(100 * time.Millisecond)
		}
	}
}
