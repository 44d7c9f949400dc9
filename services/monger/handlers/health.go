// Copyright (C) 2026 Monger HQ (ops@mongerhq.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mongerhq/monger/services/llm"
	"github.com/mongerhq/monger/services/monger/datatypes"
	"github.com/mongerhq/monger/services/referrals"
)

// healthProbeTimeout bounds the backend probe so a hung model server
// cannot hang the health check.
const healthProbeTimeout = 10 * time.Second

// HandleHealth probes the model backend and reports overall status.
// A degraded backend is reported, not hidden; the process itself is
// still serving.
func HandleHealth(client llm.Client, network *referrals.Network) gin.HandlerFunc {
	return func(c *gin.Context) {
		probeCtx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
		defer cancel()

		resp := datatypes.HealthResponse{
			Status:      "ok",
			LLMProvider: client.ProviderName(),
			Referrers:   network.Len(),
		}

		latency, err := client.Probe(probeCtx)
		if err != nil {
			resp.Status = "degraded"
			resp.Error = err.Error()
		} else {
			resp.LLMOk = true
			resp.LLMModel = client.ModelName()
			resp.LLMLatencyMs = latency.Milliseconds()
		}

		c.JSON(http.StatusOK, resp)
	}
}

// HandleVersion reports service identity and the active model.
func HandleVersion(version string, client llm.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, datatypes.VersionResponse{
			Service:     "monger",
			Version:     version,
			LLMProvider: client.ProviderName(),
			LLMModel:    client.ModelName(),
		})
	}
}

// HandleLLMStats exposes the completion-call stats window.
func HandleLLMStats(stats *llm.CallStats) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, stats.Summary())
	}
}
