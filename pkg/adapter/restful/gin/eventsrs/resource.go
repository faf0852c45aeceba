// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package eventsrs realizes the events resource, streaming the
// lifecycle and verification notifications to web clients over
// server-sent events. Delivery is best-effort by design: clients which
// connect late or read slowly miss events without affecting the
// transitions which emitted them.
package eventsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/smartplate/smartplate/pkg/adapter/event/hub"
)

type resource struct {
	hub *hub.Hub
}

// Register instantiates a resource adapting the event hub instance
// with the relevant REST APIs including:
//  1. GET request to /api/smartplate/v1/events
//     in order to subscribe to the live event stream.
func Register(r *gin.RouterGroup, h *hub.Hub) {
	rs := &resource{hub: h}
	r.GET("events", rs.Stream)
}

func (rs *resource) Stream(c *gin.Context) {
	ch, cancel := rs.hub.Subscribe()
	defer cancel()
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return
			}
			b, err := json.Marshal(e)
			if err != nil {
				continue
			}
			if _, err := c.Writer.WriteString(
				"data: " + string(b) + "\n\n",
			); err != nil {
				return
			}
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
