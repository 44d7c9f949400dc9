// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package character loads the Monger's character definition and turns
// it into prompts and canned lines. Nothing here talks to a model;
// prompt assembly is a pure function of the config.
package character

import (
	"encoding/json"
	"fmt"
	"os"
)

// Identity describes who the character is and where he stands.
type Identity struct {
	Name           string `json:"name"`
	Appearance     string `json:"appearance"`
	Weather        string `json:"weather"`
	Setting        string `json:"setting"`
	LocationReason string `json:"locationReason"`
}

// Product is the one thing he sells.
type Product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Uniqueness  string `json:"uniqueness"`
	Mystery     string `json:"mystery"`
	Security    string `json:"security"`
}

// Lore is the backstory he drops in fragments.
type Lore struct {
	Slang       string `json:"slang"`
	Status      string `json:"status"`
	Family      string `json:"family"`
	Secrecy     string `json:"secrecy"`
	Competitors string `json:"competitors"`
	TheFormula  string `json:"theFormula"`
	Authorities string `json:"authorities"`
}

// Punctuation pins down his typography quirks.
type Punctuation struct {
	Emdashes    string `json:"emdashes"`
	Ellipsis    string `json:"ellipsis"`
	SentenceEnd string `json:"sentenceEnd"`
}

// Voice pins down how he writes.
type Voice struct {
	Case        string      `json:"case"`
	Punctuation Punctuation `json:"punctuation"`
	Style       string      `json:"style"`
	Length      string      `json:"length"`
}

// SalesFlow is the collection script: what to gather and what happens
// when it is all gathered.
type SalesFlow struct {
	Collect          []string `json:"collect"`
	OnComplete       string   `json:"onComplete"`
	OnPhraseReceived string   `json:"onPhraseReceived"`
}

// EmotionalMode is one register the character can operate in.
type EmotionalMode struct {
	Triggers string   `json:"triggers"`
	Behavior string   `json:"behavior"`
	Examples []string `json:"examples"`
	Recovery string   `json:"recovery"`
}

// ReferralResponse is the scripted reaction to one referral status.
type ReferralResponse struct {
	Line         string `json:"line"`
	DiscountNote string `json:"discountNote"`
}

// Referrals scripts how he handles name-drops.
type Referrals struct {
	OnMention string                      `json:"onMention"`
	Responses map[string]ReferralResponse `json:"responses"`
}

// Rules are the lines he never crosses.
type Rules struct {
	NeverAcknowledge             []string `json:"neverAcknowledge"`
	OnFourthWallBreak            string   `json:"onFourthWallBreak"`
	NeverExplainTechnicalProcess string   `json:"neverExplainTechnicalProcess"`
	NeverBeWhimsical             string   `json:"neverBeWhimsical"`
}

// OpeningLines are the greetings, keyed by visitor situation.
type OpeningLines struct {
	NewVisitor  []string `json:"newVisitor"`
	RepeatBuyer []string `json:"repeatBuyer"`
	TimeWaster  string   `json:"timeWaster"`
	VIPReferral string   `json:"vipReferral"`
}

// FallbackResponse is what he says when the pipeline breaks.
type FallbackResponse struct {
	Line string `json:"line"`
	Mood string `json:"mood"`
}

// Config is the full character definition loaded from monger.json.
type Config struct {
	Identity              Identity                 `json:"identity"`
	Product               Product                  `json:"product"`
	Lore                  Lore                     `json:"lore"`
	Voice                 Voice                    `json:"voice"`
	SalesFlow             SalesFlow                `json:"salesFlow"`
	EmotionalModes        map[string]EmotionalMode `json:"emotionalModes"`
	Referrals             Referrals                `json:"referrals"`
	Rules                 Rules                    `json:"rules"`
	OpeningLines          OpeningLines             `json:"openingLines"`
	ReferralResponseLines map[string]string        `json:"referralResponseLines"`
	Fallback              FallbackResponse         `json:"fallbackResponse"`
}

// Load reads and parses the character config. Unlike referral data,
// the character definition is not optional: without it there is no
// character to run, so errors surface to the caller.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read character config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse character config: %w", err)
	}
	if cfg.Identity.Name == "" {
		return nil, fmt.Errorf("character config %s has no identity.name", path)
	}
	return &cfg, nil
}

// FallbackOrDefault returns the configured fallback response, or the
// built-in one when the config leaves it out.
func (c *Config) FallbackOrDefault() FallbackResponse {
	fb := c.Fallback
	if fb.Line == "" {
		fb.Line = "...signal's bad.  say that again."
	}
	if fb.Mood == "" {
		fb.Mood = "neutral"
	}
	return fb
}
