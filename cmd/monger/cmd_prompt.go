// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mongerhq/monger/services/monger/character"
	"github.com/mongerhq/monger/services/monger/datatypes"
)

var promptCheckoutMode bool

// promptCmd renders the exact prompts the service would send, for
// character-config debugging without burning model calls.
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Render the character's system and context prompts",
	RunE: func(cmd *cobra.Command, args []string) error {
		charCfg, err := character.Load(cfg.Data.CharacterPath)
		if err != nil {
			return err
		}

		fmt.Println("===== system prompt =====")
		fmt.Println(charCfg.BuildSystemPrompt())
		fmt.Println()
		fmt.Println("===== context prompt =====")
		fmt.Println(charCfg.BuildContextPrompt(datatypes.CustomerContext{
			IsCheckoutMode: promptCheckoutMode,
		}))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the configured service version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("monger %s\n", cfg.Version)
	},
}

func init() {
	promptCmd.Flags().BoolVar(&promptCheckoutMode, "checkout", false, "render the checkout-mode context prompt")
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(versionCmd)
}
