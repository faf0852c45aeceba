// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/core/model"
)

type RequestsConnQueryer interface {
	RequestsQueryer
}

type RequestsTxQueryer interface {
	RequestsQueryer
}

// RequestsQueryer declares the persistence operations of the request
// lifecycle. Every status-changing method is a compare-and-set write:
// the update is conditioned on the request still holding the expected
// current status, so at most one concurrent transition wins per guard
// window. A failed guard surfaces as an invalid-transition error and
// leaves the request untouched; a missing request as not-found.
type RequestsQueryer interface {
	Create(ctx context.Context, req *model.Request) error
	ByID(ctx context.Context, id uuid.UUID) (*model.Request, error)
	ByRequester(ctx context.Context, requester uuid.UUID) ([]*model.Request, error)
	ByDonor(ctx context.Context, donor uuid.UUID) ([]*model.Request, error)

	// PendingByUrgency lists pending requests with the most urgent
	// first, for the donor browsing view.
	PendingByUrgency(ctx context.Context) ([]*model.Request, error)

	// VolunteerTasks lists requests on which the given volunteer acts
	// as primary or co-volunteer and which are not yet completed.
	VolunteerTasks(ctx context.Context, volunteer uuid.UUID) ([]*model.Request, error)

	// Accept moves a pending request to accepted_by_donor, recording
	// the donor identity and offer details.
	Accept(ctx context.Context, id uuid.UUID, donor *model.Participant,
		availabilityTime, foodCondition string, at time.Time) (*model.Request, error)

	// Assign moves an accepted_by_donor request to
	// assigned_to_volunteer, recording the selected volunteer.
	Assign(ctx context.Context, id uuid.UUID, vol *model.Participant,
		at time.Time) (*model.Request, error)

	// SetCoVolunteer records the escalation outcome; the write is
	// conditioned on the co-volunteer slot still being empty.
	SetCoVolunteer(ctx context.Context, id uuid.UUID, vol *model.Participant,
		reason model.EscalationReason, auto bool) (*model.Request, error)

	// AdvanceDelivery moves a request along one volunteer-driven edge
	// (picked_up, in_transit, delivered), stamping the matching
	// timestamp and, on delivery, the optional photo reference.
	AdvanceDelivery(ctx context.Context, id uuid.UUID, from, to model.Status,
		photo string, at time.Time) (*model.Request, error)

	// Complete moves a delivered request to completed, recording the
	// optional rating and feedback.
	Complete(ctx context.Context, id uuid.UUID, rating *int,
		feedback string, at time.Time) (*model.Request, error)

	// StatusAggregates counts requests and the people they feed, one
	// aggregate row per status actually present in the table.
	StatusAggregates(ctx context.Context) ([]model.StatusAggregate, error)

	// CompletedTrends aggregates completed requests per creation day,
	// oldest day first.
	CompletedTrends(ctx context.Context) ([]model.DailyTrend, error)
}

type Requests interface {
	Conn(Conn) RequestsConnQueryer
	Tx(Tx) RequestsTxQueryer
}
