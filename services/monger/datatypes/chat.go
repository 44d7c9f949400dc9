// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// This file contains request and response types for the monger HTTP
// endpoints. The canonical conversation state lives in state.go.
package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// =============================================================================
// Limits
// =============================================================================

const (
	// MaxMessageContentBytes is the maximum size of a single message
	// or user input. Byte length, not rune count.
	MaxMessageContentBytes = 32 * 1024 // 32KB

	// MaxHistoryMessages is the maximum conversation history length
	// accepted per request.
	MaxHistoryMessages = 100
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// chatValidate is the validator instance for chat datatypes.
var chatValidate *validator.Validate

func init() {
	chatValidate = validator.New()
	_ = chatValidate.RegisterValidation("maxbytes", validateMaxBytes)
}

// validateMaxBytes enforces MaxMessageContentBytes on string fields.
func validateMaxBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxMessageContentBytes
}

// =============================================================================
// Chat Request Types
// =============================================================================

// ConversationMessage is a single prior exchange in the conversation.
type ConversationMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,maxbytes"`
}

// CurrentState is the purchase-intent trio collected so far, as the
// caller last saw it.
type CurrentState struct {
	HasAffirmation bool    `json:"has_affirmation"`
	Size           *string `json:"size"`
	Phrase         *string `json:"phrase"`
}

// CustomerContext describes the visitor and what the character already
// knows about them. Supplied by the caller on every turn; the service
// itself holds no per-session state.
type CustomerContext struct {
	TotalShirtsBought int           `json:"total_shirts_bought" validate:"gte=0"`
	IsRepeatBuyer     bool          `json:"is_repeat_buyer"`
	CurrentState      CurrentState  `json:"current_state"`
	HasReferral       bool          `json:"has_referral"`
	ReferrerEmail     *string       `json:"referrer_email"`
	IsCheckoutMode    bool          `json:"is_checkout_mode"`
	CheckoutState     CheckoutState `json:"checkout_state"`
	Mood              Mood          `json:"mood"`
}

// ChatRequest is the body of POST /v1/chat.
//
// # Validation
//
// Uses go-playground/validator:
//   - UserInput: required, max 32KB (maxbytes)
//   - ConversationHistory: up to 100 messages, each validated
type ChatRequest struct {
	RequestID           string                `json:"request_id" validate:"omitempty,uuid4"`
	UserInput           string                `json:"user_input" validate:"required,maxbytes"`
	Context             CustomerContext       `json:"context"`
	ConversationHistory []ConversationMessage `json:"conversation_history" validate:"max=100,dive"`
}

// Validate validates the ChatRequest fields.
func (r *ChatRequest) Validate() error {
	return chatValidate.Struct(r)
}

// EnsureDefaults populates RequestID when the client omitted it, so
// every turn is traceable.
func (r *ChatRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	if r.Context.Mood == "" {
		r.Context.Mood = MoodNeutral
	}
}

// PriorState reconstructs the canonical state implied by the caller's
// context, the baseline a turn merges into.
func (c CustomerContext) PriorState() MongerState {
	state := NewMongerState()
	state.HasAffirmation = c.CurrentState.HasAffirmation
	state.Size = c.CurrentState.Size
	state.Phrase = c.CurrentState.Phrase
	if c.Mood != "" && ValidMood(string(c.Mood)) {
		state.Mood = c.Mood
	}
	state.Checkout = c.CheckoutState
	if state.Checkout.Shipping.Country == "" {
		state.Checkout.Shipping.Country = "US"
	}
	if c.IsCheckoutMode {
		state.ReadyForCheckout = true
	}
	return state
}

// =============================================================================
// Chat Response Types
// =============================================================================

// ChatResponse is the result of one turn.
type ChatResponse struct {
	ResponseID string      `json:"response_id"`
	Reply      string      `json:"reply"`
	State      MongerState `json:"state"`
	UI         UIHints     `json:"ui"`
	Fallback   bool        `json:"fallback,omitempty"`
	CreatedAt  int64       `json:"created_at"`
}

// NewChatResponse stamps identity and time onto a turn result.
func NewChatResponse(reply string, state MongerState, fallback bool) ChatResponse {
	return ChatResponse{
		ResponseID: uuid.NewString(),
		Reply:      reply,
		State:      state,
		UI:         HintsFor(state),
		Fallback:   fallback,
		CreatedAt:  time.Now().UnixMilli(),
	}
}

// =============================================================================
// Line Endpoints
// =============================================================================

// OpeningLineRequest asks for a greeting appropriate to the visitor.
type OpeningLineRequest struct {
	TotalShirtsBought int     `json:"total_shirts_bought" validate:"gte=0"`
	IsTimeWaster      bool    `json:"is_time_waster"`
	ReferralStatus    *string `json:"referral_status"`
}

// Validate validates the OpeningLineRequest fields.
func (r *OpeningLineRequest) Validate() error {
	return chatValidate.Struct(r)
}

// OpeningLineResponse carries the chosen greeting.
type OpeningLineResponse struct {
	Line string `json:"line"`
}

// ReferralLineRequest asks for the character's reaction to a referral
// lookup outcome.
type ReferralLineRequest struct {
	Status             string `json:"status" validate:"required"`
	DiscountPercentage int    `json:"discount_percentage" validate:"gte=0,lte=100"`
}

// Validate validates the ReferralLineRequest fields.
func (r *ReferralLineRequest) Validate() error {
	return chatValidate.Struct(r)
}

// ReferralLineResponse carries the reaction line.
type ReferralLineResponse struct {
	Line string `json:"line"`
}

// =============================================================================
// Referral Endpoints
// =============================================================================

// ReferralLookupResponse is the wire form of a resolved referral.
type ReferralLookupResponse struct {
	Found            bool   `json:"found"`
	ReferrerID       string `json:"referrer_id,omitempty"`
	Name             string `json:"name,omitempty"`
	Nickname         string `json:"nickname,omitempty"`
	Tier             string `json:"tier,omitempty"`
	Discount         int    `json:"discount,omitempty"`
	Purchases        int    `json:"purchases,omitempty"`
	MatchType        string `json:"match_type,omitempty"`
	MatchMethod      string `json:"match_method,omitempty"`
	ConnectedThrough string `json:"connected_through,omitempty"`
	Relationship     string `json:"relationship,omitempty"`
}

// ReferralPurchaseRequest records a completed purchase against a
// referrer for tier accounting.
type ReferralPurchaseRequest struct {
	ReferrerID string `json:"referrer_id" validate:"required"`
}

// Validate validates the ReferralPurchaseRequest fields.
func (r *ReferralPurchaseRequest) Validate() error {
	return chatValidate.Struct(r)
}

// ReferralPurchaseResponse reports the referrer's standing after the
// purchase was recorded.
type ReferralPurchaseResponse struct {
	ReferrerID string `json:"referrer_id"`
	Purchases  int    `json:"purchases"`
	Tier       string `json:"tier"`
}

// =============================================================================
// Service Endpoints
// =============================================================================

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string `json:"status"`
	LLMProvider  string `json:"llm_provider"`
	LLMOk        bool   `json:"llm_ok"`
	LLMModel     string `json:"llm_model,omitempty"`
	LLMLatencyMs int64  `json:"llm_latency_ms,omitempty"`
	Referrers    int    `json:"referrers"`
	Error        string `json:"error,omitempty"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Service     string `json:"service"`
	Version     string `json:"version"`
	LLMProvider string `json:"llm_provider"`
	LLMModel    string `json:"llm_model"`
}
