// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mongerhq/monger/services/referrals"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	referralJSONOutput bool // Output as JSON for scripting
	referralDirectOnly bool // Skip one-hop resolution
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

// referralCmd groups referral-data operations.
//
// # Examples
//
//	monger referral lookup "jon smith"
//	monger referral lookup jane@example.com --json
//	monger referral purchase ref_001
var referralCmd = &cobra.Command{
	Use:   "referral",
	Short: "Inspect and mutate the referral network",
}

var referralLookupCmd = &cobra.Command{
	Use:   "lookup <query>",
	Short: "Resolve a name, email, or phone against the referral data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		network := referrals.Load(cfg.Data.ReferralsPath)

		var match *referrals.Match
		var ok bool
		if referralDirectOnly {
			match, ok = network.Lookup(args[0])
		} else {
			match, ok = network.LookupWithConnections(args[0])
		}
		if !ok {
			fmt.Println("no match")
			return nil
		}

		if referralJSONOutput {
			return json.NewEncoder(os.Stdout).Encode(match)
		}

		fmt.Printf("%s (%s)\n", match.Name, match.ReferrerID)
		fmt.Printf("  tier: %s  discount: %d%%  purchases: %d\n", match.Tier, match.Discount, match.Purchases)
		fmt.Printf("  matched by %s (%s)\n", match.Method, match.MatchType)
		if match.MatchType == referrals.MatchFriendOf {
			fmt.Printf("  connected through %s (%s)\n", match.ConnectedThrough, match.Relationship)
		}
		return nil
	},
}

var referralPurchaseCmd = &cobra.Command{
	Use:   "purchase <referrer-id>",
	Short: "Record a purchase and report tier standing",
	Long: `Record a purchase against a referrer in the in-memory index and
print the resulting standing. The data file itself is not rewritten;
this exists to preview tier transitions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		network := referrals.Load(cfg.Data.ReferralsPath)

		if !network.RecordPurchase(args[0]) {
			return fmt.Errorf("unknown referrer %q", args[0])
		}
		ref, _ := network.Get(args[0])
		fmt.Printf("%s: purchases=%d tier=%s\n", ref.Name, ref.Purchases, ref.Tier)
		return nil
	},
}

func init() {
	referralLookupCmd.Flags().BoolVar(&referralJSONOutput, "json", false, "output as JSON")
	referralLookupCmd.Flags().BoolVar(&referralDirectOnly, "direct", false, "skip friend-of-a-friend resolution")

	referralCmd.AddCommand(referralLookupCmd)
	referralCmd.AddCommand(referralPurchaseCmd)
	rootCmd.AddCommand(referralCmd)
}
