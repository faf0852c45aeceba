// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package participantsrp realizes the participants repository over a
// PostgreSQL database.
package participantsrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/adapter/db/postgres"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/repo"
)

// Repo provides access to the participants repository operations.
type Repo struct {
}

// New instantiates a participants repository.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn takes a Conn instance and returns a participants queryer
// adapting its repo.ParticipantsQueryer operations to that connection.
func (parts *Repo) Conn(c repo.Conn) repo.ParticipantsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, p *model.Participant) error {
	return Create(ctx, cq.Conn, p)
}

func (cq connQueryer) ByID(ctx context.Context, id uuid.UUID) (*model.Participant, error) {
	return ByID(ctx, cq.Conn, id)
}

func (cq connQueryer) ByEmail(ctx context.Context, email string) (*model.Participant, error) {
	return ByEmail(ctx, cq.Conn, email)
}

func (cq connQueryer) Volunteers(ctx context.Context) ([]*model.Participant, error) {
	return Volunteers(ctx, cq.Conn)
}

func (cq connQueryer) PendingNGOs(ctx context.Context) ([]*model.Participant, error) {
	return PendingNGOs(ctx, cq.Conn)
}

func (cq connQueryer) All(ctx context.Context) ([]*model.Participant, error) {
	return All(ctx, cq.Conn)
}

func (cq connQueryer) RoleCounts(ctx context.Context) (map[model.Role]int, error) {
	return RoleCounts(ctx, cq.Conn)
}

func (cq connQueryer) IncTotalRequests(ctx context.Context, id uuid.UUID) error {
	return IncCounter(ctx, cq.Conn, id, "total_requests")
}

func (cq connQueryer) IncTotalDonations(ctx context.Context, id uuid.UUID) error {
	return IncCounter(ctx, cq.Conn, id, "total_donations")
}

func (cq connQueryer) IncCompletedTasks(ctx context.Context, id uuid.UUID) (*model.Participant, error) {
	return IncReturning(ctx, cq.Conn, id, "completed_tasks")
}

func (cq connQueryer) IncCompletedRequests(ctx context.Context, id uuid.UUID) (*model.Participant, error) {
	return IncReturning(ctx, cq.Conn, id, "completed_requests")
}

func (cq connQueryer) SetReliability(ctx context.Context, id uuid.UUID, scoreValue float64) error {
	return SetReliability(ctx, cq.Conn, id, scoreValue)
}

func (cq connQueryer) SetVerification(ctx context.Context, id uuid.UUID, status model.VerificationStatus, notes string, verifiedBy uuid.UUID, at time.Time) (*model.Participant, error) {
	return SetVerification(ctx, cq.Conn, id, status, notes, verifiedBy, at)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx takes a Tx instance and returns a participants queryer adapting
// its repo.ParticipantsQueryer operations to that transaction.
func (parts *Repo) Tx(tx repo.Tx) repo.ParticipantsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, p *model.Participant) error {
	return Create(ctx, tq.Tx, p)
}

func (tq txQueryer) ByID(ctx context.Context, id uuid.UUID) (*model.Participant, error) {
	return ByID(ctx, tq.Tx, id)
}

func (tq txQueryer) ByEmail(ctx context.Context, email string) (*model.Participant, error) {
	return ByEmail(ctx, tq.Tx, email)
}

func (tq txQueryer) Volunteers(ctx context.Context) ([]*model.Participant, error) {
	return Volunteers(ctx, tq.Tx)
}

func (tq txQueryer) PendingNGOs(ctx context.Context) ([]*model.Participant, error) {
	return PendingNGOs(ctx, tq.Tx)
}

func (tq txQueryer) All(ctx context.Context) ([]*model.Participant, error) {
	return All(ctx, tq.Tx)
}

func (tq txQueryer) RoleCounts(ctx context.Context) (map[model.Role]int, error) {
	return RoleCounts(ctx, tq.Tx)
}

func (tq txQueryer) IncTotalRequests(ctx context.Context, id uuid.UUID) error {
	return IncCounter(ctx, tq.Tx, id, "total_requests")
}

func (tq txQueryer) IncTotalDonations(ctx context.Context, id uuid.UUID) error {
	return IncCounter(ctx, tq.Tx, id, "total_donations")
}

func (tq txQueryer) IncCompletedTasks(ctx context.Context, id uuid.UUID) (*model.Participant, error) {
	return IncReturning(ctx, tq.Tx, id, "completed_tasks")
}

func (tq txQueryer) IncCompletedRequests(ctx context.Context, id uuid.UUID) (*model.Participant, error) {
	return IncReturning(ctx, tq.Tx, id, "completed_requests")
}

func (tq txQueryer) SetReliability(ctx context.Context, id uuid.UUID, scoreValue float64) error {
	return SetReliability(ctx, tq.Tx, id, scoreValue)
}

func (tq txQueryer) SetVerification(ctx context.Context, id uuid.UUID, status model.VerificationStatus, notes string, verifiedBy uuid.UUID, at time.Time) (*model.Participant, error) {
	return SetVerification(ctx, tq.Tx, id, status, notes, verifiedBy, at)
}
