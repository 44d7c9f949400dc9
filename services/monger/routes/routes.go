// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mongerhq/monger/services/llm"
	"github.com/mongerhq/monger/services/monger/character"
	"github.com/mongerhq/monger/services/monger/dialogue"
	"github.com/mongerhq/monger/services/monger/handlers"
	"github.com/mongerhq/monger/services/monger/observability"
	"github.com/mongerhq/monger/services/referrals"
)

// Deps are the collaborators the route handlers close over.
type Deps struct {
	Version      string
	LLM          llm.Client
	Stats        *llm.CallStats
	Character    *character.Config
	Orchestrator *dialogue.Orchestrator
	Network      *referrals.Network
	Metrics      *observability.Metrics
}

// SetupRoutes wires every endpoint onto the router.
func SetupRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", handlers.HandleHealth(deps.LLM, deps.Network))
	router.GET("/version", handlers.HandleVersion(deps.Version, deps.LLM))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.POST("/chat", handlers.HandleChat(deps.Orchestrator))
		v1.POST("/opening-line", handlers.HandleOpeningLine(deps.Character))
		v1.POST("/referral-line", handlers.HandleReferralLine(deps.Character))
		v1.GET("/stats/llm", handlers.HandleLLMStats(deps.Stats))

		referral := v1.Group("/referral")
		{
			referral.GET("/lookup", handlers.HandleReferralLookup(deps.Network, deps.Metrics))
			referral.POST("/purchase", handlers.HandleReferralPurchase(deps.Network))
		}
	}
}
