// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package event declares the transition notification collaborator of
// the donation engine. Emission is fire-and-forget: a failing or slow
// notifier never rolls back or delays the transition it reports.
package event

import "context"

// Names of the events emitted by the lifecycle and verification use
// cases.
const (
	NewRequest           = "new_request"
	RequestStatusChanged = "request_status_changed"
	RequestCompleted     = "request_completed"
	VerificationUpdated  = "verification_updated"
)

// Event is a named notification with an arbitrary payload, emitted on
// every lifecycle transition.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// Notifier delivers events on a best-effort basis. Implementations
// must not block the caller; delivery failures are their own concern.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Discard is a Notifier which drops every event. It stands in where
// no notification transport is configured.
type Discard struct{}

// Notify implements the Notifier interface by ignoring the event.
func (Discard) Notify(context.Context, Event) {}
