// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mongerhq/monger/pkg/ux"
	"github.com/mongerhq/monger/services/monger/datatypes"
)

var chatServerURL string

// chatCmd is an interactive client for a running service instance. The
// service holds no session state, so the client carries the merged
// state and conversation history across turns itself.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to a running monger service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(chatServerURL)
	},
}

func runChat(serverURL string) error {
	client := &http.Client{Timeout: 2 * time.Minute}
	ui := ux.NewChatUI(os.Stdout)

	ui.Header(ux.HeaderConfig{
		ServerURL: serverURL,
		Version:   fetchVersion(client, serverURL),
	})

	var history []datatypes.ConversationMessage
	var stats ux.SessionStats
	custCtx := datatypes.CustomerContext{Mood: datatypes.MoodNeutral}
	started := time.Now()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(ui.Prompt())
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		spinner := ux.NewSpinner("the monger considers")
		spinner.Start()
		resp, err := postChat(client, serverURL, datatypes.ChatRequest{
			UserInput:           input,
			Context:             custCtx,
			ConversationHistory: history,
		})
		spinner.Stop()
		if err != nil {
			ui.Error(err)
			continue
		}

		ui.Reply(resp.Reply)
		if resp.Fallback {
			ui.FallbackNotice()
			stats.Fallbacks++
		}
		if resp.State.ReadyForPayment {
			ui.PaymentNotice()
		} else if resp.State.ReadyForCheckout && !custCtx.IsCheckoutMode {
			ui.CheckoutNotice()
		}

		history = append(history,
			datatypes.ConversationMessage{Role: "user", Content: input},
			datatypes.ConversationMessage{Role: "assistant", Content: resp.Reply},
		)
		if len(history) > datatypes.MaxHistoryMessages {
			history = history[len(history)-datatypes.MaxHistoryMessages:]
		}
		custCtx = contextFromState(custCtx, resp.State)
		stats.Turns++
	}

	stats.Duration = time.Since(started)
	ui.SessionEnd(stats)
	return scanner.Err()
}

// contextFromState folds a turn's merged state back into the context
// sent on the next turn.
func contextFromState(prev datatypes.CustomerContext, state datatypes.MongerState) datatypes.CustomerContext {
	next := prev
	next.CurrentState = datatypes.CurrentState{
		HasAffirmation: state.HasAffirmation,
		Size:           state.Size,
		Phrase:         state.Phrase,
	}
	next.Mood = state.Mood
	next.IsCheckoutMode = state.ReadyForCheckout
	next.CheckoutState = state.Checkout
	return next
}

func postChat(client *http.Client, serverURL string, req datatypes.ChatRequest) (*datatypes.ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpResp, err := client.Post(serverURL+"/v1/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", httpResp.Status)
	}

	var resp datatypes.ChatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	return &resp, nil
}

// fetchVersion is best-effort; the header just shows less without it.
func fetchVersion(client *http.Client, serverURL string) string {
	httpResp, err := client.Get(serverURL + "/version")
	if err != nil {
		return ""
	}
	defer httpResp.Body.Close()

	var v datatypes.VersionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&v); err != nil {
		return ""
	}
	return v.Version
}

func init() {
	chatCmd.Flags().StringVar(&chatServerURL, "server", "http://localhost:3002", "monger service base URL")
	rootCmd.AddCommand(chatCmd)
}
