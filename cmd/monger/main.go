// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command monger is the operator CLI: referral lookups, purchase
// recording, and prompt inspection against local data files, without
// running the HTTP service.
package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/mongerhq/monger/services/monger/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "monger",
	Short: "Operator tooling for the monger service",
	Long: `monger inspects and exercises the service's data files directly:
resolve referral identifiers, record purchases, and render the exact
prompts the character sends to the model.`,
	SilenceUsage: true,
}

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to monger.yaml (optional)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		loaded, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		cfg = loaded
	}
}
