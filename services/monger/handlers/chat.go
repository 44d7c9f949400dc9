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
	"go.opentelemetry.io/otel"

	"github.com/mongerhq/monger/services/monger/datatypes"
	"github.com/mongerhq/monger/services/monger/dialogue"
)

var handlerTracer = otel.Tracer("monger.handlers")

// HandleChat runs one dialogue turn.
//
// Malformed requests are the caller's fault and get a 400; everything
// downstream of a valid request succeeds, because the orchestrator
// absorbs model failures into an in-character fallback.
func HandleChat(orch *dialogue.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := handlerTracer.Start(c.Request.Context(), "HandleChat")
		defer span.End()

		var req datatypes.ChatRequest
		if err := c.BindJSON(&req); err != nil {
			slog.Error("failed to parse chat request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			slog.Warn("chat request failed validation", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		slog.Debug("chat request",
			"request_id", req.RequestID,
			"input_len", len(req.UserInput),
			"history_len", len(req.ConversationHistory),
			"checkout_mode", req.Context.IsCheckoutMode,
		)

		resp := orch.Turn(ctx, req)
		c.JSON(http.StatusOK, resp)
	}
}
