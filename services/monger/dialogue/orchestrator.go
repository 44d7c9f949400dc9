// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package dialogue owns per-turn control flow: prompt assembly, the
// completion call, response parsing, state merge, and the in-character
// fallback when any of that fails.
package dialogue

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mongerhq/monger/services/llm"
	"github.com/mongerhq/monger/services/monger/character"
	"github.com/mongerhq/monger/services/monger/datatypes"
	"github.com/mongerhq/monger/services/monger/observability"
)

var dialogueTracer = otel.Tracer("monger.dialogue")

// Fallback reasons, used as metric labels.
const (
	ReasonLLMError      = "llm_error"
	ReasonBadJSON       = "bad_json"
	ReasonMissingFields = "missing_fields"
)

// Orchestrator runs one dialogue turn at a time. It holds no
// per-session state; the caller carries state between turns, so
// concurrent turns for different sessions never contend.
type Orchestrator struct {
	llm       llm.Client
	character *character.Config
	metrics   *observability.Metrics
}

// NewOrchestrator creates an Orchestrator. All collaborators are
// required.
func NewOrchestrator(client llm.Client, cfg *character.Config, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		llm:       client,
		character: cfg,
		metrics:   metrics,
	}
}

// turnPayload is the JSON contract the prompt solicits: one object
// with the character's reply and its view of the state.
type turnPayload struct {
	Reply string          `json:"reply"`
	State json.RawMessage `json:"state"`
}

// Turn executes one request/response cycle.
//
// It builds two system messages (character definition, then visitor
// context), appends history and the new input, and requests a single
// JSON-formatted completion. The completion's state delta is merged
// into the prior state; readiness gating happens inside the merge.
//
// Turn never returns an error. Any failure (transport, timeout, bad
// JSON, missing top-level fields) produces the canned fallback reply
// with intent fields preserved and readiness flags reset. The model
// is not retried within a turn.
func (o *Orchestrator) Turn(ctx context.Context, req datatypes.ChatRequest) datatypes.ChatResponse {
	ctx, span := dialogueTracer.Start(ctx, "dialogue.turn",
		trace.WithAttributes(
			attribute.String("request.id", req.RequestID),
			attribute.Int("history.messages", len(req.ConversationHistory)),
			attribute.Bool("checkout.mode", req.Context.IsCheckoutMode),
		))
	defer span.End()

	prior := req.Context.PriorState()

	messages := make([]llm.Message, 0, len(req.ConversationHistory)+3)
	messages = append(messages,
		llm.Message{Role: llm.RoleSystem, Content: o.character.BuildSystemPrompt()},
		llm.Message{Role: llm.RoleSystem, Content: o.character.BuildContextPrompt(req.Context)},
	)
	for _, msg := range req.ConversationHistory {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.UserInput})

	resp, err := o.llm.Chat(ctx, messages, llm.ChatParams{JSONMode: true})
	if err != nil {
		slog.Error("completion call failed", "request_id", req.RequestID, "error", err)
		return o.fallback(req, prior, ReasonLLMError)
	}
	o.metrics.RecordLLMCall(resp.Latency.Seconds(), resp.TokensUsed)

	var payload turnPayload
	if err := json.Unmarshal([]byte(resp.Content), &payload); err != nil {
		slog.Error("completion is not valid JSON",
			"request_id", req.RequestID, "error", err, "content_len", len(resp.Content))
		return o.fallback(req, prior, ReasonBadJSON)
	}
	if payload.Reply == "" || len(payload.State) == 0 {
		slog.Error("completion missing reply or state", "request_id", req.RequestID)
		return o.fallback(req, prior, ReasonMissingFields)
	}

	// The state delta is untyped on purpose: every field is optional
	// and possibly mistyped, and the merge guards each one.
	var delta map[string]any
	if err := json.Unmarshal(payload.State, &delta); err != nil {
		slog.Error("completion state is not an object", "request_id", req.RequestID, "error", err)
		return o.fallback(req, prior, ReasonMissingFields)
	}

	next := datatypes.MergeState(prior, delta)
	o.metrics.RecordTurn(false)

	span.SetAttributes(
		attribute.String("turn.mood", string(next.Mood)),
		attribute.Bool("turn.ready_for_checkout", next.ReadyForCheckout),
		attribute.Bool("turn.ready_for_payment", next.ReadyForPayment),
	)
	slog.Debug("turn complete",
		"request_id", req.RequestID,
		"mood", next.Mood,
		"ready_for_checkout", next.ReadyForCheckout,
		"ready_for_payment", next.ReadyForPayment,
	)

	return datatypes.NewChatResponse(payload.Reply, next, false)
}

// fallback produces the fixed in-character response for a failed turn.
// Intent fields and checkout data carry over from the prior state;
// readiness flags reset so the next successful turn must re-derive
// them from accumulated state.
func (o *Orchestrator) fallback(req datatypes.ChatRequest, prior datatypes.MongerState, reason string) datatypes.ChatResponse {
	fb := o.character.FallbackOrDefault()

	state := prior
	state.PendingConfirmation = false
	state.ReadyForCheckout = false
	state.ReadyForPayment = false
	state.WantsReferralCheck = nil
	if state.Mood == "" {
		if datatypes.ValidMood(fb.Mood) {
			state.Mood = datatypes.Mood(fb.Mood)
		} else {
			state.Mood = datatypes.MoodNeutral
		}
	}

	o.metrics.RecordTurn(true)
	o.metrics.RecordFallback(reason)
	slog.Warn("turn fell back", "request_id", req.RequestID, "reason", reason)

	return datatypes.NewChatResponse(fb.Line, state, true)
}
