// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memrepo provides in-memory implementations of the core
// repository interfaces, so the use case packages can be unit tested
// without a live database. The implementations honor the same guard
// semantics as the postgres adapter: status-changing writes are
// conditioned on the expected current state and a failed guard
// surfaces as an invalid-transition error, while a missing row
// surfaces as a not-found error.
//
// The store is not safe for concurrent use; the use case unit tests
// drive it from a single goroutine.
package memrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/core/cerr"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/repo"
)

// Store keeps participants and requests in plain maps, preserving the
// insertion order for the queries which define an ordering.
type Store struct {
	participants map[uuid.UUID]*model.Participant
	porder       []uuid.UUID
	requests     map[uuid.UUID]*model.Request
	rorder       []uuid.UUID
}

// NewStore instantiates an empty Store.
func NewStore() *Store {
	return &Store{
		participants: make(map[uuid.UUID]*model.Participant),
		requests:     make(map[uuid.UUID]*model.Request),
	}
}

// Pool returns a repo.Pool which hands out no-op connections and
// transactions; all state lives in the Store itself.
func (s *Store) Pool() repo.Pool { return pool{} }

// Participants returns a repo.Participants implementation over the
// Store.
func (s *Store) Participants() repo.Participants {
	return participantsRepo{s: s}
}

// Requests returns a repo.Requests implementation over the Store.
func (s *Store) Requests() repo.Requests { return requestsRepo{s: s} }

// AddParticipant seeds a participant, bypassing the registration use
// case.
func (s *Store) AddParticipant(p *model.Participant) {
	s.participants[p.ID] = cloneParticipant(p)
	s.porder = append(s.porder, p.ID)
}

// AddRequest seeds a request, bypassing the lifecycle use case.
func (s *Store) AddRequest(r *model.Request) {
	s.requests[r.ID] = cloneRequest(r)
	s.rorder = append(s.rorder, r.ID)
}

// Participant returns the stored participant directly, for test
// assertions over persisted state.
func (s *Store) Participant(id uuid.UUID) *model.Participant {
	return s.participants[id]
}

// Request returns the stored request directly, for test assertions
// over persisted state.
func (s *Store) Request(id uuid.UUID) *model.Request {
	return s.requests[id]
}

type pool struct{}

func (pool) Conn(ctx context.Context, handler repo.ConnHandler) error {
	return handler(ctx, conn{})
}

func (pool) Close() error { return nil }

type conn struct{}

func (conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("memrepo does not execute SQL")
}

func (conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errors.New("memrepo does not execute SQL")
}

func (conn) Tx(ctx context.Context, handler repo.TxHandler) error {
	return handler(ctx, tx{})
}

func (conn) IsConn() {}

type tx struct{}

func (tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errors.New("memrepo does not execute SQL")
}

func (tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errors.New("memrepo does not execute SQL")
}

func (tx) IsTx() {}

func cloneParticipant(p *model.Participant) *model.Participant {
	c := *p
	return &c
}

func cloneRequest(r *model.Request) *model.Request {
	c := *r
	return &c
}

type participantsRepo struct{ s *Store }

func (p participantsRepo) Conn(repo.Conn) repo.ParticipantsConnQueryer {
	return p
}

func (p participantsRepo) Tx(repo.Tx) repo.ParticipantsTxQueryer {
	return p
}

func (p participantsRepo) Create(
	_ context.Context, np *model.Participant,
) error {
	p.s.AddParticipant(np)
	return nil
}

func (p participantsRepo) byID(id uuid.UUID) (*model.Participant, error) {
	stored, ok := p.s.participants[id]
	if !ok {
		return nil, cerr.NotFound(fmt.Errorf("participant %s not found", id))
	}
	return stored, nil
}

func (p participantsRepo) ByID(
	_ context.Context, id uuid.UUID,
) (*model.Participant, error) {
	stored, err := p.byID(id)
	if err != nil {
		return nil, err
	}
	return cloneParticipant(stored), nil
}

func (p participantsRepo) ByEmail(
	_ context.Context, email string,
) (*model.Participant, error) {
	for _, id := range p.s.porder {
		if stored := p.s.participants[id]; stored.Email == email {
			return cloneParticipant(stored), nil
		}
	}
	return nil, cerr.NotFound(fmt.Errorf("email %q not found", email))
}

func (p participantsRepo) Volunteers(
	context.Context,
) ([]*model.Participant, error) {
	var vols []*model.Participant
	for _, id := range p.s.porder {
		if stored := p.s.participants[id]; stored.Role == model.RoleVolunteer {
			vols = append(vols, cloneParticipant(stored))
		}
	}
	return vols, nil
}

func (p participantsRepo) PendingNGOs(
	context.Context,
) ([]*model.Participant, error) {
	var ngos []*model.Participant
	for _, id := range p.s.porder {
		stored := p.s.participants[id]
		if stored.Role == model.RoleNGO &&
			stored.VerificationStatus == model.VerificationPending {
			ngos = append(ngos, cloneParticipant(stored))
		}
	}
	return ngos, nil
}

func (p participantsRepo) All(
	context.Context,
) ([]*model.Participant, error) {
	all := make([]*model.Participant, 0, len(p.s.porder))
	for _, id := range p.s.porder {
		all = append(all, cloneParticipant(p.s.participants[id]))
	}
	return all, nil
}

func (p participantsRepo) RoleCounts(
	context.Context,
) (map[model.Role]int, error) {
	counts := make(map[model.Role]int)
	for _, id := range p.s.porder {
		counts[p.s.participants[id].Role]++
	}
	return counts, nil
}

func (p participantsRepo) IncTotalRequests(
	_ context.Context, id uuid.UUID,
) error {
	stored, err := p.byID(id)
	if err != nil {
		return err
	}
	stored.TotalRequests++
	return nil
}

func (p participantsRepo) IncTotalDonations(
	_ context.Context, id uuid.UUID,
) error {
	stored, err := p.byID(id)
	if err != nil {
		return err
	}
	stored.TotalDonations++
	return nil
}

func (p participantsRepo) IncCompletedTasks(
	_ context.Context, id uuid.UUID,
) (*model.Participant, error) {
	stored, err := p.byID(id)
	if err != nil {
		return nil, err
	}
	stored.CompletedTasks++
	return cloneParticipant(stored), nil
}

func (p participantsRepo) IncCompletedRequests(
	_ context.Context, id uuid.UUID,
) (*model.Participant, error) {
	stored, err := p.byID(id)
	if err != nil {
		return nil, err
	}
	stored.CompletedRequests++
	return cloneParticipant(stored), nil
}

func (p participantsRepo) SetReliability(
	_ context.Context, id uuid.UUID, scoreValue float64,
) error {
	stored, err := p.byID(id)
	if err != nil {
		return err
	}
	stored.ReliabilityScore = scoreValue
	return nil
}

func (p participantsRepo) SetVerification(
	_ context.Context, id uuid.UUID,
	status model.VerificationStatus, notes string,
	_ uuid.UUID, _ time.Time,
) (*model.Participant, error) {
	stored, err := p.byID(id)
	if err != nil {
		return nil, err
	}
	if stored.Role != model.RoleNGO {
		return nil, cerr.NotFound(fmt.Errorf("participant %s is no NGO", id))
	}
	stored.VerificationStatus = status
	stored.VerificationNotes = notes
	return cloneParticipant(stored), nil
}

type requestsRepo struct{ s *Store }

func (r requestsRepo) Conn(repo.Conn) repo.RequestsConnQueryer { return r }

func (r requestsRepo) Tx(repo.Tx) repo.RequestsTxQueryer { return r }

func (r requestsRepo) Create(_ context.Context, req *model.Request) error {
	r.s.requests[req.ID] = cloneRequest(req)
	r.s.rorder = append(r.s.rorder, req.ID)
	return nil
}

func (r requestsRepo) byID(id uuid.UUID) (*model.Request, error) {
	stored, ok := r.s.requests[id]
	if !ok {
		return nil, cerr.NotFound(fmt.Errorf("request %s not found", id))
	}
	return stored, nil
}

func (r requestsRepo) ByID(
	_ context.Context, id uuid.UUID,
) (*model.Request, error) {
	stored, err := r.byID(id)
	if err != nil {
		return nil, err
	}
	return cloneRequest(stored), nil
}

// newestFirst lists the stored requests matching the filter with the
// most recently created first, mirroring the created_at DESC ordering
// of the postgres adapter.
func (r requestsRepo) newestFirst(
	filter func(*model.Request) bool,
) []*model.Request {
	var reqs []*model.Request
	for i := len(r.s.rorder) - 1; i >= 0; i-- {
		if stored := r.s.requests[r.s.rorder[i]]; filter(stored) {
			reqs = append(reqs, cloneRequest(stored))
		}
	}
	return reqs
}

func (r requestsRepo) ByRequester(
	_ context.Context, requester uuid.UUID,
) ([]*model.Request, error) {
	return r.newestFirst(func(req *model.Request) bool {
		return req.RequesterID == requester
	}), nil
}

func (r requestsRepo) ByDonor(
	_ context.Context, donor uuid.UUID,
) ([]*model.Request, error) {
	return r.newestFirst(func(req *model.Request) bool {
		return req.DonorID != nil && *req.DonorID == donor
	}), nil
}

func (r requestsRepo) PendingByUrgency(
	context.Context,
) ([]*model.Request, error) {
	var reqs []*model.Request
	for _, id := range r.s.rorder {
		if stored := r.s.requests[id]; stored.Status == model.StatusPending {
			reqs = append(reqs, cloneRequest(stored))
		}
	}
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].UrgencyScore > reqs[j].UrgencyScore
	})
	return reqs, nil
}

func (r requestsRepo) VolunteerTasks(
	_ context.Context, volunteer uuid.UUID,
) ([]*model.Request, error) {
	var reqs []*model.Request
	for _, id := range r.s.rorder {
		stored := r.s.requests[id]
		if stored.ActingVolunteer(volunteer) &&
			stored.Status != model.StatusCompleted {
			reqs = append(reqs, cloneRequest(stored))
		}
	}
	return reqs, nil
}

func (r requestsRepo) StatusAggregates(
	context.Context,
) ([]model.StatusAggregate, error) {
	byStatus := make(map[model.Status]*model.StatusAggregate)
	var order []model.Status
	for _, id := range r.s.rorder {
		stored := r.s.requests[id]
		agg, ok := byStatus[stored.Status]
		if !ok {
			agg = &model.StatusAggregate{Status: stored.Status}
			byStatus[stored.Status] = agg
			order = append(order, stored.Status)
		}
		agg.Requests++
		agg.PeopleFed += stored.PeopleCount
	}
	aggs := make([]model.StatusAggregate, 0, len(order))
	for _, st := range order {
		aggs = append(aggs, *byStatus[st])
	}
	return aggs, nil
}

func (r requestsRepo) CompletedTrends(
	context.Context,
) ([]model.DailyTrend, error) {
	byDay := make(map[string]*model.DailyTrend)
	for _, id := range r.s.rorder {
		stored := r.s.requests[id]
		if stored.Status != model.StatusCompleted {
			continue
		}
		day := stored.CreatedAt.Format("2006-01-02")
		trend, ok := byDay[day]
		if !ok {
			trend = &model.DailyTrend{Date: day}
			byDay[day] = trend
		}
		trend.Requests++
		trend.PeopleFed += stored.PeopleCount
	}
	trends := make([]model.DailyTrend, 0, len(byDay))
	for _, trend := range byDay {
		trends = append(trends, *trend)
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Date < trends[j].Date
	})
	return trends, nil
}

func (r requestsRepo) guarded(
	id uuid.UUID, expected model.Status,
) (*model.Request, error) {
	stored, err := r.byID(id)
	if err != nil {
		return nil, err
	}
	if stored.Status != expected {
		return nil, cerr.InvalidTransition(fmt.Errorf(
			"request %s refused the status change", id,
		))
	}
	return stored, nil
}

func (r requestsRepo) Accept(
	_ context.Context, id uuid.UUID, donor *model.Participant,
	availabilityTime, foodCondition string, at time.Time,
) (*model.Request, error) {
	stored, err := r.guarded(id, model.StatusPending)
	if err != nil {
		return nil, err
	}
	stored.Status = model.StatusAcceptedByDonor
	donorID := donor.ID
	stored.DonorID = &donorID
	stored.DonorName = donor.Name
	stored.AvailabilityTime = availabilityTime
	stored.FoodCondition = foodCondition
	stored.AcceptedAt = &at
	return cloneRequest(stored), nil
}

func (r requestsRepo) Assign(
	_ context.Context, id uuid.UUID, vol *model.Participant, at time.Time,
) (*model.Request, error) {
	stored, err := r.guarded(id, model.StatusAcceptedByDonor)
	if err != nil {
		return nil, err
	}
	stored.Status = model.StatusAssigned
	volID := vol.ID
	stored.VolunteerID = &volID
	stored.VolunteerName = vol.Name
	stored.AssignedAt = &at
	return cloneRequest(stored), nil
}

func (r requestsRepo) SetCoVolunteer(
	_ context.Context, id uuid.UUID, vol *model.Participant,
	reason model.EscalationReason, auto bool,
) (*model.Request, error) {
	stored, err := r.byID(id)
	if err != nil {
		return nil, err
	}
	if stored.CoVolunteerID != nil {
		return nil, cerr.InvalidTransition(fmt.Errorf(
			"request %s already has a co-volunteer", id,
		))
	}
	coID := vol.ID
	stored.CoVolunteerID = &coID
	stored.CoVolunteerName = vol.Name
	stored.EscalationReason = reason
	stored.AutoEscalated = auto
	return cloneRequest(stored), nil
}

func (r requestsRepo) AdvanceDelivery(
	_ context.Context, id uuid.UUID, from, to model.Status,
	photo string, at time.Time,
) (*model.Request, error) {
	stored, err := r.guarded(id, from)
	if err != nil {
		return nil, err
	}
	stored.Status = to
	switch to {
	case model.StatusPickedUp:
		stored.PickedUpAt = &at
	case model.StatusInTransit:
		stored.InTransitAt = &at
	case model.StatusDelivered:
		stored.DeliveredAt = &at
		if photo != "" {
			stored.DeliveryPhoto = photo
		}
	}
	return cloneRequest(stored), nil
}

func (r requestsRepo) Complete(
	_ context.Context, id uuid.UUID, rating *int,
	feedback string, at time.Time,
) (*model.Request, error) {
	stored, err := r.guarded(id, model.StatusDelivered)
	if err != nil {
		return nil, err
	}
	stored.Status = model.StatusCompleted
	stored.Rating = rating
	stored.Feedback = feedback
	stored.CompletedAt = &at
	return cloneRequest(stored), nil
}
