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

	"github.com/mongerhq/monger/services/monger/datatypes"
	"github.com/mongerhq/monger/services/monger/observability"
	"github.com/mongerhq/monger/services/referrals"
)

// HandleReferralLookup resolves a free-text identifier against the
// referral network, one-hop edges included. Not-found is a normal
// outcome and still a 200.
func HandleReferralLookup(network *referrals.Network, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
			return
		}

		match, ok := network.LookupWithConnections(query)
		if !ok {
			metrics.RecordReferralLookup("not_found", "")
			slog.Debug("referral lookup missed", "query_len", len(query))
			c.JSON(http.StatusOK, datatypes.ReferralLookupResponse{Found: false})
			return
		}

		metrics.RecordReferralLookup(string(match.MatchType), string(match.Method))
		slog.Debug("referral lookup hit",
			"referrer_id", match.ReferrerID,
			"match_type", match.MatchType,
			"method", match.Method,
		)
		c.JSON(http.StatusOK, datatypes.ReferralLookupResponse{
			Found:            true,
			ReferrerID:       match.ReferrerID,
			Name:             match.Name,
			Nickname:         match.Nickname,
			Tier:             string(match.Tier),
			Discount:         match.Discount,
			Purchases:        match.Purchases,
			MatchType:        string(match.MatchType),
			MatchMethod:      string(match.Method),
			ConnectedThrough: match.ConnectedThrough,
			Relationship:     match.Relationship,
		})
	}
}

// HandleReferralPurchase records a completed purchase for a referrer
// and reports the (possibly upgraded) standing.
func HandleReferralPurchase(network *referrals.Network) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ReferralPurchaseRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !network.RecordPurchase(req.ReferrerID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown referrer"})
			return
		}

		ref, _ := network.Get(req.ReferrerID)
		c.JSON(http.StatusOK, datatypes.ReferralPurchaseResponse{
			ReferrerID: ref.ID,
			Purchases:  ref.Purchases,
			Tier:       string(ref.Tier),
		})
	}
}
