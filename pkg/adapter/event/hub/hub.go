// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package hub provides an in-process fan-out implementation of the
// core event.Notifier interface. Each subscriber owns a buffered
// channel; a publisher never blocks on a slow subscriber, dropping
// events at that subscriber instead.
package hub

import (
	"context"
	"log/slog"
	"sync"

	"github.com/smartplate/smartplate/pkg/core/event"
	"github.com/smartplate/smartplate/pkg/core/log"
)

// DefaultBufferSize is the per-subscriber channel capacity used when
// no explicit size is configured.
const DefaultBufferSize = 16

// Hub fans published events out to the current subscribers. The zero
// value is not usable; use the New function.
type Hub struct {
	mutex   sync.Mutex
	nextID  int
	subs    map[int]chan event.Event
	bufSize int
}

// New instantiates a Hub with the given per-subscriber buffer size.
// Non-positive sizes fall back to the DefaultBufferSize.
func New(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Hub{
		subs:    make(map[int]chan event.Event),
		bufSize: bufSize,
	}
}

// Notify implements the event.Notifier interface, delivering e to
// every subscriber with spare buffer capacity. Subscribers which
// cannot keep up lose events instead of delaying the publisher.
func (h *Hub) Notify(ctx context.Context, e event.Event) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- e:
		default:
			log.Warn(ctx, "dropping event for slow subscriber",
				slog.Int("subscriber", id),
				slog.String("event", e.Name))
		}
	}
}

// Subscribe registers a new subscriber and returns its receive
// channel together with a cancel function. The cancel function must
// be called exactly once; afterwards, the channel is closed and no
// further events are delivered on it.
func (h *Hub) Subscribe() (<-chan event.Event, func()) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan event.Event, h.bufSize)
	h.subs[id] = ch
	cancel := func() {
		h.mutex.Lock()
		defer h.mutex.Unlock()
		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}
