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

type ParticipantsConnQueryer interface {
	ParticipantsQueryer
}

type ParticipantsTxQueryer interface {
	ParticipantsQueryer
}

// ParticipantsQueryer declares the persistence operations over
// registered participants. Counters are only ever incremented and the
// reliability score is only written by the lifecycle use case, so a
// row read within a transaction never observes a torn update.
type ParticipantsQueryer interface {
	Create(ctx context.Context, p *model.Participant) error
	ByID(ctx context.Context, id uuid.UUID) (*model.Participant, error)
	ByEmail(ctx context.Context, email string) (*model.Participant, error)

	// Volunteers lists all registered volunteers in registration
	// order, giving the matching policies a stable iteration order.
	Volunteers(ctx context.Context) ([]*model.Participant, error)

	// PendingNGOs lists NGOs awaiting document verification.
	PendingNGOs(ctx context.Context) ([]*model.Participant, error)

	// All lists every registered participant in registration order,
	// for the admin directory view.
	All(ctx context.Context) ([]*model.Participant, error)

	// RoleCounts counts registered participants per role.
	RoleCounts(ctx context.Context) (map[model.Role]int, error)

	IncTotalRequests(ctx context.Context, id uuid.UUID) error
	IncTotalDonations(ctx context.Context, id uuid.UUID) error

	// IncCompletedTasks and IncCompletedRequests return the updated
	// row so the reliability tracker can recompute from the fresh
	// counter values.
	IncCompletedTasks(ctx context.Context, id uuid.UUID) (*model.Participant, error)
	IncCompletedRequests(ctx context.Context, id uuid.UUID) (*model.Participant, error)

	SetReliability(ctx context.Context, id uuid.UUID, scoreValue float64) error

	// SetVerification records an admin's verification decision over
	// an NGO, together with the decision notes and reviewer.
	SetVerification(ctx context.Context, id uuid.UUID,
		status model.VerificationStatus, notes string,
		verifiedBy uuid.UUID, at time.Time) (*model.Participant, error)
}

type Participants interface {
	Conn(Conn) ParticipantsConnQueryer
	Tx(Tx) ParticipantsTxQueryer
}
