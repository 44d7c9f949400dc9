// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mongerhq/monger/services/monger/character"
	"github.com/mongerhq/monger/services/monger/datatypes"
)

// HandleOpeningLine returns a greeting appropriate to the visitor.
func HandleOpeningLine(cfg *character.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.OpeningLineRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		status := ""
		if req.ReferralStatus != nil {
			status = *req.ReferralStatus
		}
		line := cfg.OpeningLine(req.TotalShirtsBought, req.IsTimeWaster, status)

		slog.Debug("opening line",
			"shirts", req.TotalShirtsBought,
			"time_waster", req.IsTimeWaster,
			"referral", status,
		)
		c.JSON(http.StatusOK, datatypes.OpeningLineResponse{Line: line})
	}
}

// HandleReferralLine returns the character's reaction to a referral
// lookup outcome.
func HandleReferralLine(cfg *character.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ReferralLineRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		line := cfg.ReferralResponseLine(req.Status, req.DiscountPercentage)
		slog.Debug("referral line", "status", req.Status, "discount", req.DiscountPercentage)
		c.JSON(http.StatusOK, datatypes.ReferralLineResponse{Line: line})
	}
}
