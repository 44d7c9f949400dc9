// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package character

import (
	"math/rand"
	"strconv"
	"strings"
)

// OpeningLine picks a greeting for a visitor. Priority order:
// time-wasters get the brushoff, repeat buyers get recognized,
// vip referrals get warmth, everyone else gets a cold open.
func (c *Config) OpeningLine(totalShirtsBought int, isTimeWaster bool, referralStatus string) string {
	lines := c.OpeningLines

	if isTimeWaster {
		return lines.TimeWaster
	}
	if totalShirtsBought > 0 {
		return pick(lines.RepeatBuyer)
	}
	if referralStatus == "vip" {
		return lines.VIPReferral
	}
	return pick(lines.NewVisitor)
}

// ReferralResponseLine is the character's reaction to a referral
// lookup outcome. The template's {discount} placeholder is replaced
// with the actual percentage. Unknown statuses fall back to the
// "unknown" template.
func (c *Config) ReferralResponseLine(status string, discountPercentage int) string {
	template, ok := c.ReferralResponseLines[status]
	if !ok || template == "" {
		template = c.ReferralResponseLines["unknown"]
	}
	if template == "" {
		template = "never heard of em."
	}
	return strings.ReplaceAll(template, "{discount}", strconv.Itoa(discountPercentage))
}

func pick(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[rand.Intn(len(lines))]
}
