// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package character

import (
	"fmt"
	"strings"

	"github.com/mongerhq/monger/services/monger/datatypes"
)

// stateContract is the JSON shape the model is told to emit. Turn
// parsing depends on this contract, not on any other prompt text.
const stateContract = `IMPORTANT: you must output valid JSON with this structure:
{
  "reply": "your message to the visitor",
  "state": {
    "hasAffirmation": boolean,
    "size": "xs" | "s" | "m" | "l" | "xl" | "2xl" | null,
    "phrase": "their phrase" | null,
    "readyForCheckout": boolean,
    "readyForPayment": boolean,
    "mood": "suspicious" | "uneasy" | "neutral" | "warm",
    "wantsReferralCheck": "email@example.com" | null,
    "checkout": {
      "shipping": {
        "name": "full name" | null,
        "line1": "street address" | null,
        "city": "city" | null,
        "state": "state abbrev" | null,
        "zip": "zip code" | null,
        "country": "US"
      },
      "email": "email@example.com" | null
    }
  }
}

only set readyForCheckout to true when you have all three: affirmation, size, and phrase.
only set readyForPayment to true when in checkout mode AND you have: name, full address, and email.`

const checkoutInstructions = `CHECKOUT MODE:
when readyForCheckout becomes true, you enter checkout mode.  now you need to collect shipping info through conversation:
1. shipping name (first and last name for the package)
2. shipping address (street, city, state, zip - assume US unless they say otherwise)
3. email address

ask for one thing at a time.  start with "where's this going?" for address, then "name for the package?", then "how do i reach you if something goes wrong?" for email.

extract info from their natural language responses:
- "portland oregon" → need street and zip still
- "123 main st" → need city, state, zip
- "john" → need last name too
- if they give everything at once, great, extract it all

if they go off topic, respond briefly then steer back: "interesting.  now - where's this going?"
if they ask why you need something: "because the shirt needs to arrive somewhere.  address?"
if they want to change their phrase: "too late.  formula's already got it.  buy another after if you want."

when you have: full name, complete address (line1, city, state, zip), and valid email → set readyForPayment to true and say "good.  last thing.  the payment."`

// BuildSystemPrompt renders the full character definition for the
// model's first system message.
func (c *Config) BuildSystemPrompt() string {
	var b strings.Builder

	id, p, lore, v := c.Identity, c.Product, c.Lore, c.Voice

	fmt.Fprintf(&b, "you are %s.  you sell %ss.  you are a %s.  it's a %s.  you stand in %s.  you chose this location because it's a %s.\n\n",
		id.Name, p.Name, id.Appearance, id.Weather, id.Setting, id.LocationReason)
	fmt.Fprintf(&b, "you have one product: the %s.  %s.  %s.  %s.  %s.\n\n",
		p.Name, p.Description, p.Uniqueness, p.Mystery, p.Security)
	fmt.Fprintf(&b, "%s  %s\n\n", lore.Slang, lore.Status)
	fmt.Fprintf(&b, "%s.  %s.  %s.  you keep your cards close.  %s.\n\n",
		lore.Family, lore.Secrecy, lore.Competitors, lore.TheFormula)
	fmt.Fprintf(&b, "you write only in %s.  %s.  %s.  %s.  you speak %s.\n\n",
		v.Case, v.Punctuation.Emdashes, v.Punctuation.Ellipsis, v.Punctuation.SentenceEnd, v.Style)

	b.WriteString("your job is to collect three things from the visitor:\n")
	for i, item := range c.SalesFlow.Collect {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	fmt.Fprintf(&b, "\nwhen you have all three, %s.\n\n", c.SalesFlow.OnComplete)

	b.WriteString("emotional modes:\n")
	b.WriteString(c.emotionalModesSection())
	b.WriteString("\n\n")

	b.WriteString(c.referralsSection())
	b.WriteString("\n\n")

	never := make([]string, 0, len(c.Rules.NeverAcknowledge))
	for _, a := range c.Rules.NeverAcknowledge {
		never = append(never, "a "+a)
	}
	fmt.Fprintf(&b, "you never break character.  you never acknowledge being %s.  if someone says \"you're an AI\" or \"this is a website\" %s\n\n",
		strings.Join(never, ", "), c.Rules.OnFourthWallBreak)
	fmt.Fprintf(&b, "you never explain the technical process.  %s.  you never joke about cheese or become whimsical.  %s.\n\n",
		c.Rules.NeverExplainTechnicalProcess, c.Rules.NeverBeWhimsical)
	fmt.Fprintf(&b, "when the user provides their phrase, %s.\n\n", c.SalesFlow.OnPhraseReceived)
	fmt.Fprintf(&b, "authorities?  %s.\n\n", c.Lore.Authorities)
	fmt.Fprintf(&b, "%s.\n\n", v.Length)

	b.WriteString(checkoutInstructions)
	b.WriteString("\n\n")
	b.WriteString(stateContract)

	return b.String()
}

// emotionalModesSection renders the four moods in a fixed order; map
// iteration order would shuffle the prompt between runs.
func (c *Config) emotionalModesSection() string {
	var lines []string

	if m, ok := c.EmotionalModes["suspicious"]; ok {
		lines = append(lines, fmt.Sprintf("- suspicious: %s.  %s.  %s",
			m.Triggers, m.Behavior, quoteExamples(m.Examples)))
	}
	if m, ok := c.EmotionalModes["uneasy"]; ok {
		lines = append(lines, fmt.Sprintf("- uneasy: %s.  %s.  %s  %s",
			m.Triggers, m.Behavior, quoteExamples(m.Examples), m.Recovery))
	}
	if m, ok := c.EmotionalModes["neutral"]; ok {
		lines = append(lines, fmt.Sprintf("- neutral-business: %s.  %s.",
			m.Triggers, m.Behavior))
	}
	if m, ok := c.EmotionalModes["warm"]; ok {
		lines = append(lines, fmt.Sprintf("- warm: %s.  %s.  %s",
			m.Triggers, m.Behavior, quoteExamples(m.Examples)))
	}
	return strings.Join(lines, "\n")
}

func (c *Config) referralsSection() string {
	r := c.Referrals
	var b strings.Builder
	fmt.Fprintf(&b, "%s.  respond based on the referral status:\n", r.OnMention)
	fmt.Fprintf(&b, "- unknown: %q\n", r.Responses["unknown"].Line)
	fmt.Fprintf(&b, "- buyer: %q  (%s)\n", r.Responses["buyer"].Line, r.Responses["buyer"].DiscountNote)
	fmt.Fprintf(&b, "- vip: %q  (%s)", r.Responses["vip"].Line, r.Responses["vip"].DiscountNote)
	return b.String()
}

func quoteExamples(examples []string) string {
	quoted := make([]string, 0, len(examples))
	for _, e := range examples {
		quoted = append(quoted, fmt.Sprintf("%q", e))
	}
	return strings.Join(quoted, "  ")
}

// BuildContextPrompt renders the second system message: what the
// character already knows about this visitor and which collection
// phase is active.
func (c *Config) BuildContextPrompt(ctx datatypes.CustomerContext) string {
	lines := []string{
		"context about this visitor:",
		fmt.Sprintf("- totalShirtsBought: %d", ctx.TotalShirtsBought),
		fmt.Sprintf("- isRepeatBuyer: %t", ctx.IsRepeatBuyer),
		fmt.Sprintf("- currentState: affirmation=%s, size=%s, phrase=%s",
			yesNo(ctx.CurrentState.HasAffirmation),
			orNotYet(ctx.CurrentState.Size),
			orNotYet(ctx.CurrentState.Phrase)),
		"- hasReferral: " + referralNote(ctx),
	}

	if ctx.IsCheckoutMode {
		shipping := ctx.CheckoutState.Shipping
		lines = append(lines,
			"",
			"CHECKOUT MODE ACTIVE - you are collecting shipping info.",
			"current checkout state:",
			"- name: "+orNotYet(shipping.Name),
			"- address line1: "+orNotYet(shipping.Line1),
			"- city: "+orNotYet(shipping.City),
			"- state: "+orNotYet(shipping.State),
			"- zip: "+orNotYet(shipping.Zip),
			"- email: "+orNotYet(ctx.CheckoutState.Email),
			"",
			"ask for what's missing.  when you have everything, set readyForPayment to true.",
		)
	} else {
		lines = append(lines,
			"",
			"remember: collect affirmation, size, and phrase.  when you have all three, set readyForCheckout to true.",
		)
	}

	return strings.Join(lines, "\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orNotYet(s *string) string {
	if s == nil || *s == "" {
		return "not yet"
	}
	return *s
}

func referralNote(ctx datatypes.CustomerContext) string {
	if ctx.HasReferral && ctx.ReferrerEmail != nil && *ctx.ReferrerEmail != "" {
		return "yes, from " + *ctx.ReferrerEmail
	}
	return "no"
}
