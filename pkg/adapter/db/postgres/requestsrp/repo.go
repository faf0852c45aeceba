// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package requestsrp realizes the food requests repository over a
// PostgreSQL database. Status changing operations are conditioned on
// the expected current status, so concurrent writers race on the
// WHERE clause instead of overwriting each other.
package requestsrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/adapter/db/postgres"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/repo"
)

// Repo provides access to the food requests repository operations.
type Repo struct {
}

// New instantiates a food requests repository.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn takes a Conn instance and returns a requests queryer adapting
// its repo.RequestsQueryer operations to that connection.
func (reqs *Repo) Conn(c repo.Conn) repo.RequestsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, req *model.Request) error {
	return Create(ctx, cq.Conn, req)
}

func (cq connQueryer) ByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	return ByID(ctx, cq.Conn, id)
}

func (cq connQueryer) ByRequester(ctx context.Context, requester uuid.UUID) ([]*model.Request, error) {
	return ByRequester(ctx, cq.Conn, requester)
}

func (cq connQueryer) ByDonor(ctx context.Context, donor uuid.UUID) ([]*model.Request, error) {
	return ByDonor(ctx, cq.Conn, donor)
}

func (cq connQueryer) PendingByUrgency(ctx context.Context) ([]*model.Request, error) {
	return PendingByUrgency(ctx, cq.Conn)
}

func (cq connQueryer) VolunteerTasks(ctx context.Context, volunteer uuid.UUID) ([]*model.Request, error) {
	return VolunteerTasks(ctx, cq.Conn, volunteer)
}

func (cq connQueryer) Accept(ctx context.Context, id uuid.UUID, donor *model.Participant, availabilityTime, foodCondition string, at time.Time) (*model.Request, error) {
	return Accept(ctx, cq.Conn, id, donor, availabilityTime, foodCondition, at)
}

func (cq connQueryer) Assign(ctx context.Context, id uuid.UUID, vol *model.Participant, at time.Time) (*model.Request, error) {
	return Assign(ctx, cq.Conn, id, vol, at)
}

func (cq connQueryer) SetCoVolunteer(ctx context.Context, id uuid.UUID, vol *model.Participant, reason model.EscalationReason, auto bool) (*model.Request, error) {
	return SetCoVolunteer(ctx, cq.Conn, id, vol, reason, auto)
}

func (cq connQueryer) AdvanceDelivery(ctx context.Context, id uuid.UUID, from, to model.Status, photo string, at time.Time) (*model.Request, error) {
	return AdvanceDelivery(ctx, cq.Conn, id, from, to, photo, at)
}

func (cq connQueryer) Complete(ctx context.Context, id uuid.UUID, rating *int, feedback string, at time.Time) (*model.Request, error) {
	return Complete(ctx, cq.Conn, id, rating, feedback, at)
}

func (cq connQueryer) StatusAggregates(ctx context.Context) ([]model.StatusAggregate, error) {
	return StatusAggregates(ctx, cq.Conn)
}

func (cq connQueryer) CompletedTrends(ctx context.Context) ([]model.DailyTrend, error) {
	return CompletedTrends(ctx, cq.Conn)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx takes a Tx instance and returns a requests queryer adapting its
// repo.RequestsQueryer operations to that transaction.
func (reqs *Repo) Tx(tx repo.Tx) repo.RequestsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, req *model.Request) error {
	return Create(ctx, tq.Tx, req)
}

func (tq txQueryer) ByID(ctx context.Context, id uuid.UUID) (*model.Request, error) {
	return ByID(ctx, tq.Tx, id)
}

func (tq txQueryer) ByRequester(ctx context.Context, requester uuid.UUID) ([]*model.Request, error) {
	return ByRequester(ctx, tq.Tx, requester)
}

func (tq txQueryer) ByDonor(ctx context.Context, donor uuid.UUID) ([]*model.Request, error) {
	return ByDonor(ctx, tq.Tx, donor)
}

func (tq txQueryer) PendingByUrgency(ctx context.Context) ([]*model.Request, error) {
	return PendingByUrgency(ctx, tq.Tx)
}

func (tq txQueryer) VolunteerTasks(ctx context.Context, volunteer uuid.UUID) ([]*model.Request, error) {
	return VolunteerTasks(ctx, tq.Tx, volunteer)
}

func (tq txQueryer) Accept(ctx context.Context, id uuid.UUID, donor *model.Participant, availabilityTime, foodCondition string, at time.Time) (*model.Request, error) {
	return Accept(ctx, tq.Tx, id, donor, availabilityTime, foodCondition, at)
}

func (tq txQueryer) Assign(ctx context.Context, id uuid.UUID, vol *model.Participant, at time.Time) (*model.Request, error) {
	return Assign(ctx, tq.Tx, id, vol, at)
}

func (tq txQueryer) SetCoVolunteer(ctx context.Context, id uuid.UUID, vol *model.Participant, reason model.EscalationReason, auto bool) (*model.Request, error) {
	return SetCoVolunteer(ctx, tq.Tx, id, vol, reason, auto)
}

func (tq txQueryer) AdvanceDelivery(ctx context.Context, id uuid.UUID, from, to model.Status, photo string, at time.Time) (*model.Request, error) {
	return AdvanceDelivery(ctx, tq.Tx, id, from, to, photo, at)
}

func (tq txQueryer) Complete(ctx context.Context, id uuid.UUID, rating *int, feedback string, at time.Time) (*model.Request, error) {
	return Complete(ctx, tq.Tx, id, rating, feedback, at)
}

func (tq txQueryer) StatusAggregates(ctx context.Context) ([]model.StatusAggregate, error) {
	return StatusAggregates(ctx, tq.Tx)
}

func (tq txQueryer) CompletedTrends(ctx context.Context) ([]model.DailyTrend, error) {
	return CompletedTrends(ctx, tq.Tx)
}
