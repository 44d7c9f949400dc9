// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides data structures for the monger service.
//
// This file contains the canonical conversation state and the merge
// function that reconciles a raw model-produced delta with the previous
// turn's state. For request/response types see chat.go.
package datatypes

// =============================================================================
// Enums
// =============================================================================

// Mood is the character's emotional register for a turn.
type Mood string

const (
	MoodSuspicious Mood = "suspicious"
	MoodUneasy     Mood = "uneasy"
	MoodNeutral    Mood = "neutral"
	MoodWarm       Mood = "warm"
)

// ValidMood reports whether s is one of the four allowed moods.
func ValidMood(s string) bool {
	switch Mood(s) {
	case MoodSuspicious, MoodUneasy, MoodNeutral, MoodWarm:
		return true
	}
	return false
}

// ValidSize reports whether s is an allowed shirt size.
func ValidSize(s string) bool {
	switch s {
	case "xs", "s", "m", "l", "xl", "2xl":
		return true
	}
	return false
}

// =============================================================================
// Canonical State
// =============================================================================

// ShippingAddress is the shipping destination collected during checkout.
// All fields are optional until filled; Country defaults to "US".
type ShippingAddress struct {
	Name    *string `json:"name"`
	Line1   *string `json:"line1"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Zip     *string `json:"zip"`
	Country string  `json:"country"`
}

// Complete reports whether the address has everything a label needs.
func (a ShippingAddress) Complete() bool {
	return a.Name != nil && a.Line1 != nil && a.City != nil &&
		a.State != nil && a.Zip != nil
}

// CheckoutState is the shipping and contact info accumulated through
// conversation once the visitor has committed to a purchase.
type CheckoutState struct {
	Shipping ShippingAddress `json:"shipping"`
	Email    *string         `json:"email"`
}

// Complete reports whether checkout has a full address and an email.
func (c CheckoutState) Complete() bool {
	return c.Shipping.Complete() && c.Email != nil
}

// MongerState is the canonical per-session conversation state.
//
// # Description
//
// MongerState is the authoritative record of everything the character
// has extracted from the visitor so far: the purchase intent trio
// (affirmation, size, phrase), the readiness flags that gate checkout
// and payment, the current mood, an optional referral identifier the
// character wants resolved, and the accumulated checkout sub-state.
//
// The caller owns session lifetime. A session starts from the zero
// value (NewMongerState), the state is re-submitted with every request,
// and MergeState produces the next state once per turn.
//
// # Invariants
//
//   - ReadyForCheckout is never true without affirmation, size and
//     phrase all present.
//   - ReadyForPayment is never true without ReadyForCheckout and a
//     complete checkout (full address plus email).
//   - Checkout fields accumulate across turns; a turn that is silent
//     about a field never erases it.
type MongerState struct {
	HasAffirmation      bool          `json:"has_affirmation"`
	Size                *string       `json:"size"`
	Phrase              *string       `json:"phrase"`
	PendingConfirmation bool          `json:"pending_confirmation"`
	ReadyForCheckout    bool          `json:"ready_for_checkout"`
	ReadyForPayment     bool          `json:"ready_for_payment"`
	Mood                Mood          `json:"mood"`
	WantsReferralCheck  *string       `json:"wants_referral_check"`
	Checkout            CheckoutState `json:"checkout"`
}

// NewMongerState returns the all-default state for a fresh session.
func NewMongerState() MongerState {
	return MongerState{
		Mood: MoodNeutral,
		Checkout: CheckoutState{
			Shipping: ShippingAddress{Country: "US"},
		},
	}
}

// HasIntentTrio reports whether affirmation, size and phrase are all
// collected, the precondition for entering checkout.
func (s MongerState) HasIntentTrio() bool {
	return s.HasAffirmation && s.Size != nil && s.Phrase != nil
}

// =============================================================================
// Merge
// =============================================================================

// MergeState reconciles a raw model-produced state delta with the
// previous turn's state and returns the next canonical state.
//
// # Description
//
// The delta is whatever the model emitted under "state": an untyped
// map whose every field is optional and possibly mistyped. Each field
// is taken from the delta only when present and of the expected type
// and enum; otherwise the previous turn's value carries forward.
// Unknown fields are dropped silently. The function never fails: a
// nil or garbage delta simply yields the previous state.
//
// Checkout fields follow a stricter accumulation rule than scalars: a
// present non-null value overwrites, while an absent or explicitly
// null value preserves the prior value. That is what lets a multi-turn
// collection flow (address, then name, then email) accumulate even
// though each turn only reports what it currently heard.
//
// Readiness flags are gated after the field merge: ready_for_checkout
// is forced false unless the merged state has affirmation, size and
// phrase; ready_for_payment additionally requires a complete checkout.
// The model asserting readiness never overrides missing data.
//
// Both snake_case and camelCase key spellings are accepted, since the
// JSON contract the prompt solicits uses camelCase while the wire
// format of the canonical state uses snake_case.
func MergeState(prev MongerState, delta map[string]any) MongerState {
	next := prev
	if next.Mood == "" {
		next.Mood = MoodNeutral
	}
	if next.Checkout.Shipping.Country == "" {
		next.Checkout.Shipping.Country = "US"
	}
	if delta == nil {
		return next
	}

	if v, ok := boolField(delta, "has_affirmation", "hasAffirmation"); ok {
		next.HasAffirmation = v
	}
	if v, ok := stringField(delta, "size", "size"); ok && ValidSize(v) {
		size := v
		next.Size = &size
	}
	if v, ok := stringField(delta, "phrase", "phrase"); ok {
		phrase := v
		next.Phrase = &phrase
	}
	if v, ok := boolField(delta, "pending_confirmation", "pendingConfirmation"); ok {
		next.PendingConfirmation = v
	}
	if v, ok := boolField(delta, "ready_for_checkout", "readyForCheckout"); ok {
		next.ReadyForCheckout = v
	}
	if v, ok := boolField(delta, "ready_for_payment", "readyForPayment"); ok {
		next.ReadyForPayment = v
	}
	if v, ok := stringField(delta, "mood", "mood"); ok && ValidMood(v) {
		next.Mood = Mood(v)
	}
	if v, ok := stringField(delta, "wants_referral_check", "wantsReferralCheck"); ok {
		check := v
		next.WantsReferralCheck = &check
	}

	if checkout, ok := mapField(delta, "checkout", "checkout"); ok {
		mergeCheckout(&next.Checkout, checkout)
	}

	// Readiness gating: the model's say-so is not enough.
	if !next.HasIntentTrio() {
		next.ReadyForCheckout = false
	}
	if !next.ReadyForCheckout || !next.Checkout.Complete() {
		next.ReadyForPayment = false
	}

	return next
}

// mergeCheckout applies the accumulate-don't-wipe rule to checkout
// fields: present non-null overwrites, absent or null preserves.
func mergeCheckout(checkout *CheckoutState, delta map[string]any) {
	if v, ok := stringField(delta, "email", "email"); ok {
		email := v
		checkout.Email = &email
	}

	shipping, ok := mapField(delta, "shipping", "shipping")
	if !ok {
		return
	}
	mergeAddressField(&checkout.Shipping.Name, shipping, "name")
	mergeAddressField(&checkout.Shipping.Line1, shipping, "line1")
	mergeAddressField(&checkout.Shipping.City, shipping, "city")
	mergeAddressField(&checkout.Shipping.State, shipping, "state")
	mergeAddressField(&checkout.Shipping.Zip, shipping, "zip")
	if v, ok := stringField(shipping, "country", "country"); ok {
		checkout.Shipping.Country = v
	}
}

func mergeAddressField(dst **string, shipping map[string]any, key string) {
	if v, ok := stringField(shipping, key, key); ok {
		s := v
		*dst = &s
	}
}

// =============================================================================
// Typed Field Extraction
// =============================================================================

// boolField reads a boolean under either key spelling. Missing or
// mistyped values report not-present.
func boolField(m map[string]any, snake, camel string) (bool, bool) {
	for _, key := range []string{snake, camel} {
		if raw, ok := m[key]; ok {
			if v, ok := raw.(bool); ok {
				return v, true
			}
		}
	}
	return false, false
}

// stringField reads a non-empty string under either key spelling.
// Null, missing and mistyped values all report not-present, which is
// what makes null preserve the prior value during merge.
func stringField(m map[string]any, snake, camel string) (string, bool) {
	for _, key := range []string{snake, camel} {
		if raw, ok := m[key]; ok {
			if v, ok := raw.(string); ok && v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// mapField reads a nested object under either key spelling.
func mapField(m map[string]any, snake, camel string) (map[string]any, bool) {
	for _, key := range []string{snake, camel} {
		if raw, ok := m[key]; ok {
			if v, ok := raw.(map[string]any); ok {
				return v, true
			}
		}
	}
	return nil, false
}

// =============================================================================
// UI Hints
// =============================================================================

// UIHints tells the front end how to present a turn. Blocked and
// InputDisabled are always false at this layer; session-level blocking
// belongs to the caller.
type UIHints struct {
	SkipTypewriter  bool `json:"skip_typewriter"`
	ShowPaymentForm bool `json:"show_payment_form"`
	Blocked         bool `json:"blocked"`
	InputDisabled   bool `json:"input_disabled"`
}

// HintsFor derives presentation hints purely from state.
func HintsFor(state MongerState) UIHints {
	return UIHints{
		SkipTypewriter:  state.PendingConfirmation,
		ShowPaymentForm: state.ReadyForPayment,
	}
}
