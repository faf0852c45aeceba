// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package requestuc contains the request lifecycle UseCase: the
// explicit state machine which governs a food request from creation
// through delivery confirmation. Every transition runs in a single
// transaction whose status write is a compare-and-set, so either the
// full effect set of a transition applies or none of it does, and at
// most one concurrent caller wins per guard window.
package requestuc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/core/cerr"
	"github.com/smartplate/smartplate/pkg/core/event"
	"github.com/smartplate/smartplate/pkg/core/log"
	"github.com/smartplate/smartplate/pkg/core/match"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/repo"
	"github.com/smartplate/smartplate/pkg/core/score"
)

// UseCase represents the request lifecycle use case. It holds a
// database connection pool, the requests and participants repository
// instances (to be guided with the DB pool), and the transition event
// notifier.
type UseCase struct {
	pool           repo.Pool
	requestsrp     repo.Requests
	participantsrp repo.Participants

	matching *match.Params
	notifier event.Notifier
	now      func() time.Time
}

// New instantiates a request lifecycle use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool, rs repo.Requests, ps repo.Participants, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, requestsrp: rs, participantsrp: ps}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.matching == nil {
		mp := match.DefaultParams()
		uc.matching = &mp
	}
	if uc.notifier == nil {
		uc.notifier = event.Discard{}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// CreateInput carries the immutable attributes of a new food request.
type CreateInput struct {
	FoodType            string
	FoodCategory        string
	Quantity            int
	QuantityUnit        string
	RequiredDate        string
	RequiredTime        string
	PickupLocation      string
	PickupCoordinate    *model.Coordinate
	PeopleCount         int
	SpecialInstructions string
}

// Create use case raises a new food request on behalf of the
// requester NGO. The urgency score is computed once here, from the
// deadline, the people count, and the requester's reliability
// history, and never recomputed. The requester's total counter is
// incremented in the same transaction. On success a new_request event
// is emitted.
func (rl *UseCase) Create(
	ctx context.Context, requester uuid.UUID, in CreateInput,
) (req *model.Request, err error) {
	err = rl.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			pq := rl.participantsrp.Tx(tx)
			ngo, err := pq.ByID(ctx, requester)
			if err != nil {
				return fmt.Errorf("loading requester: %w", err)
			}
			if ngo.Role != model.RoleNGO {
				return cerr.Authorization(fmt.Errorf(
					"role %q cannot create requests", ngo.Role,
				))
			}
			if !ngo.Verified() {
				return cerr.Authorization(fmt.Errorf(
					"NGO %q is not verified yet", ngo.ID,
				))
			}
			req = newRequest(ngo, in, rl.now())
			rq := rl.requestsrp.Tx(tx)
			if err := rq.Create(ctx, req); err != nil {
				return fmt.Errorf("creating request: %w", err)
			}
			if err := pq.IncTotalRequests(ctx, ngo.ID); err != nil {
				return fmt.Errorf("incrementing total requests: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	rl.notifier.Notify(ctx, event.Event{Name: event.NewRequest, Payload: req})
	log.Info(ctx, "food request created",
		log.ID("request_id", req.ID),
		log.ID("ngo_id", req.RequesterID),
		slog.Float64("urgency_score", req.UrgencyScore),
	)
	return req, nil
}

func newRequest(
	ngo *model.Participant, in CreateInput, at time.Time,
) *model.Request {
	req := &model.Request{
		ID:                  uuid.New(),
		RequesterID:         ngo.ID,
		RequesterName:       ngo.Name,
		RequesterOrg:        ngo.Organization,
		FoodType:            in.FoodType,
		FoodCategory:        in.FoodCategory,
		Quantity:            in.Quantity,
		QuantityUnit:        in.QuantityUnit,
		RequiredDate:        in.RequiredDate,
		RequiredTime:        in.RequiredTime,
		PickupLocation:      in.PickupLocation,
		PickupCoordinate:    in.PickupCoordinate,
		PeopleCount:         in.PeopleCount,
		SpecialInstructions: in.SpecialInstructions,
		Status:              model.StatusPending,
		CreatedAt:           at,
	}
	req.UrgencyScore = score.Urgency(
		in.PeopleCount, req.RequiredAt(),
		&score.History{ReliabilityScore: ngo.ReliabilityScore},
	)
	return req
}

// AcceptInput carries the donor's offer details for an accepted
// request.
type AcceptInput struct {
	AvailabilityTime string
	FoodCondition    string
}

// Accept use case lets a donor claim a pending request. The
// compare-and-set on the pending status guarantees that exactly one
// of two concurrent donors wins; the loser observes an
// invalid-transition error. After acceptance the assignment policy
// scans the volunteer pool and, when it selects a primary volunteer,
// the escalation policy may pre-assign a co-volunteer. An empty pool
// leaves the request at accepted_by_donor, a valid state to be
// retried by a later acceptance cycle.
func (rl *UseCase) Accept(
	ctx context.Context, donor, id uuid.UUID, in AcceptInput,
) (req *model.Request, err error) {
	err = rl.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			pq := rl.participantsrp.Tx(tx)
			d, err := pq.ByID(ctx, donor)
			if err != nil {
				return fmt.Errorf("loading donor: %w", err)
			}
			if d.Role != model.RoleDonor {
				return cerr.Authorization(fmt.Errorf(
					"role %q cannot accept donations", d.Role,
				))
			}
			rq := rl.requestsrp.Tx(tx)
			req, err = rq.Accept(
				ctx, id, d, in.AvailabilityTime, in.FoodCondition, rl.now(),
			)
			if err != nil {
				return fmt.Errorf("accepting request: %w", err)
			}
			if err := pq.IncTotalDonations(ctx, d.ID); err != nil {
				return fmt.Errorf("incrementing total donations: %w", err)
			}
			req, err = rl.assign(ctx, pq, rq, req)
			if err != nil {
				return fmt.Errorf("assigning volunteer: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	rl.notifier.Notify(ctx, event.Event{
		Name: event.RequestStatusChanged,
		Payload: statusChange{
			RequestID: req.ID, Status: req.Status.String(),
		},
	})
	return req, nil
}

// assign runs the assignment policy over the full volunteer pool and
// persists its outcome. The pool is read within the enclosing
// transaction, so reliability scores are observed consistently;
// volunteers registering mid-scan may or may not be considered, which
// the design accepts.
func (rl *UseCase) assign(
	ctx context.Context,
	pq repo.ParticipantsTxQueryer, rq repo.RequestsTxQueryer,
	req *model.Request,
) (*model.Request, error) {
	vols, err := pq.Volunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing volunteers: %w", err)
	}
	primary, ok := match.SelectPrimary(rl.matching.BuildCandidates(vols, req))
	if !ok {
		log.Info(ctx, "no volunteer available, assignment postponed",
			log.ID("request_id", req.ID))
		return req, nil
	}
	req, err = rq.Assign(ctx, req.ID, primary.Volunteer, rl.now())
	if err != nil {
		return nil, fmt.Errorf("recording assignment: %w", err)
	}
	escalate, reason := rl.matching.ShouldEscalate(
		primary.Capacity, req.Quantity, primary.Distance,
	)
	if !escalate {
		return req, nil
	}
	co, ok := match.SelectCoVolunteer(vols, primary.Volunteer.ID)
	if !ok {
		// no second volunteer exists; proceed with a single one
		return req, nil
	}
	req, err = rq.SetCoVolunteer(ctx, req.ID, co, reason, true)
	if err != nil {
		return nil, fmt.Errorf("recording co-volunteer: %w", err)
	}
	log.Info(ctx, "escalation pre-assigned a co-volunteer",
		log.ID("request_id", req.ID),
		log.ID("co_volunteer_id", co.ID),
		slog.String("reason", string(reason)),
	)
	return req, nil
}

// statusChange is the payload of request_status_changed events.
type statusChange struct {
	RequestID uuid.UUID `json:"request_id"`
	Status    string    `json:"status"`
}
