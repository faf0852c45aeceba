// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package hub_test

import (
	"context"
	"testing"

	"github.com/smartplate/smartplate/pkg/adapter/event/hub"
	"github.com/smartplate/smartplate/pkg/core/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOut(t *testing.T) {
	ctx := context.Background()
	h := hub.New(4)

	first, cancelFirst := h.Subscribe()
	second, cancelSecond := h.Subscribe()
	defer cancelSecond()

	h.Notify(ctx, event.Event{Name: "new_request", Payload: 1})
	for _, ch := range []<-chan event.Event{first, second} {
		select {
		case e := <-ch:
			assert.Equal(t, "new_request", e.Name)
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}

	cancelFirst()
	h.Notify(ctx, event.Event{Name: "request_status_changed"})
	_, open := <-first
	assert.False(t, open, "a cancelled channel is closed")
	select {
	case e := <-second:
		assert.Equal(t, "request_status_changed", e.Name)
	default:
		t.Fatal("remaining subscriber did not receive the event")
	}
}

func TestSlowSubscriberLosesEvents(t *testing.T) {
	ctx := context.Background()
	h := hub.New(1)

	ch, cancel := h.Subscribe()
	defer cancel()

	// the second event exceeds the buffer and must be dropped without
	// blocking the publisher
	h.Notify(ctx, event.Event{Name: "first"})
	h.Notify(ctx, event.Event{Name: "second"})

	e := <-ch
	assert.Equal(t, "first", e.Name)
	select {
	case e := <-ch:
		t.Fatalf("unexpected buffered event %q", e.Name)
	default:
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	h := hub.New(0)
	ch, cancel := h.Subscribe()
	cancel()
	require.NotPanics(t, cancel, "a second cancel must be harmless")
	_, open := <-ch
	assert.False(t, open)
}
