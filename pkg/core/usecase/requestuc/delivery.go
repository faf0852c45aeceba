// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package requestuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/core/cerr"
	"github.com/smartplate/smartplate/pkg/core/event"
	"github.com/smartplate/smartplate/pkg/core/log"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/repo"
	"github.com/smartplate/smartplate/pkg/core/score"
)

// UpdateStatusInput carries a volunteer's delivery status update.
type UpdateStatusInput struct {
	Status        model.Status
	DeliveryPhoto string

	// ExtraVolunteerRequired flags a manual escalation; the reason is
	// supplied by the flagging volunteer.
	ExtraVolunteerRequired bool
	ExtraVolunteerReason   string
}

// UpdateStatus use case advances a request along one volunteer-driven
// edge: picked_up, in_transit, or delivered. Only the primary or the
// co-volunteer of the request may act, and only the direct successor
// of the current status is accepted; everything else fails as an
// invalid transition and leaves the request untouched. A manual
// escalation flag recruits a co-volunteer while that slot is still
// empty.
func (rl *UseCase) UpdateStatus(
	ctx context.Context, volunteer, id uuid.UUID, in UpdateStatusInput,
) (req *model.Request, err error) {
	if !in.Status.VolunteerSettable() {
		return nil, cerr.BadRequest(fmt.Errorf(
			"status %q is not a delivery status", in.Status,
		))
	}
	err = rl.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			pq := rl.participantsrp.Tx(tx)
			vol, err := pq.ByID(ctx, volunteer)
			if err != nil {
				return fmt.Errorf("loading volunteer: %w", err)
			}
			if vol.Role != model.RoleVolunteer {
				return cerr.Authorization(fmt.Errorf(
					"role %q cannot update delivery status", vol.Role,
				))
			}
			rq := rl.requestsrp.Tx(tx)
			req, err = rq.ByID(ctx, id)
			if err != nil {
				return fmt.Errorf("loading request: %w", err)
			}
			if !req.ActingVolunteer(vol.ID) {
				return cerr.InvalidTransition(fmt.Errorf(
					"volunteer %q does not act on request %q", vol.ID, id,
				))
			}
			if !req.Status.CanAdvance(in.Status) {
				return cerr.InvalidTransition(fmt.Errorf(
					"cannot move from %q to %q", req.Status, in.Status,
				))
			}
			req, err = rq.AdvanceDelivery(
				ctx, id, req.Status, in.Status, in.DeliveryPhoto, rl.now(),
			)
			if err != nil {
				return fmt.Errorf("advancing delivery: %w", err)
			}
			if in.ExtraVolunteerRequired && req.CoVolunteerID == nil {
				req, err = rl.escalateManually(ctx, pq, rq, vol.ID, req, in)
				if err != nil {
					return err
				}
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

// escalateManually recruits a co-volunteer after a mid-delivery
// difficulty flag. Candidates are scored without the capacity term
// since the flagging volunteer already owns primary capacity. Having
// no other volunteer is not an error; the flag is then dropped.
func (rl *UseCase) escalateManually(
	ctx context.Context,
	pq repo.ParticipantsTxQueryer, rq repo.RequestsTxQueryer,
	flagger uuid.UUID, req *model.Request, in UpdateStatusInput,
) (*model.Request, error) {
	vols, err := pq.Volunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing volunteers: %w", err)
	}
	co, ok := rl.matching.SelectManualCoVolunteer(vols, flagger, req)
	if !ok {
		log.Warn(ctx, "extra volunteer requested but none available",
			log.ID("request_id", req.ID))
		return req, nil
	}
	reason := model.EscalationReason(in.ExtraVolunteerReason)
	req, err = rq.SetCoVolunteer(ctx, req.ID, co, reason, false)
	if err != nil {
		return nil, fmt.Errorf("recording co-volunteer: %w", err)
	}
	return req, nil
}

// ConfirmInput carries the NGO's receipt confirmation details.
type ConfirmInput struct {
	Rating   *int
	Feedback string
}

// ConfirmReceipt use case completes a delivered request on behalf of
// the owning NGO. The compare-and-set on the delivered status makes a
// second confirmation fail instead of double-counting: the
// reliability tracker below is deliberately not idempotent, so the
// state machine is its only re-entry protection. Both the volunteer
// and the requester reliability updates commit atomically with the
// status change.
func (rl *UseCase) ConfirmReceipt(
	ctx context.Context, ngo, id uuid.UUID, in ConfirmInput,
) (req *model.Request, err error) {
	err = rl.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			pq := rl.participantsrp.Tx(tx)
			owner, err := pq.ByID(ctx, ngo)
			if err != nil {
				return fmt.Errorf("loading NGO: %w", err)
			}
			if owner.Role != model.RoleNGO {
				return cerr.Authorization(fmt.Errorf(
					"role %q cannot confirm receipts", owner.Role,
				))
			}
			rq := rl.requestsrp.Tx(tx)
			req, err = rq.ByID(ctx, id)
			if err != nil {
				return fmt.Errorf("loading request: %w", err)
			}
			if req.RequesterID != owner.ID {
				return cerr.InvalidTransition(fmt.Errorf(
					"NGO %q does not own request %q", owner.ID, id,
				))
			}
			req, err = rq.Complete(ctx, id, in.Rating, in.Feedback, rl.now())
			if err != nil {
				return fmt.Errorf("completing request: %w", err)
			}
			return rl.trackReliability(ctx, pq, req, owner.ID)
		})
	})
	if err != nil {
		return nil, err
	}
	rl.notifier.Notify(ctx, event.Event{
		Name:    event.RequestCompleted,
		Payload: statusChange{RequestID: req.ID, Status: req.Status.String()},
	})
	return req, nil
}

// trackReliability applies the completion rewards: the volunteer's
// task counter feeds the asymptotic 5-to-10 curve and the NGO's
// completion ratio is rescaled to 0..10. Counters only grow; there is
// no penalty path.
func (rl *UseCase) trackReliability(
	ctx context.Context, pq repo.ParticipantsTxQueryer,
	req *model.Request, ngo uuid.UUID,
) error {
	if req.VolunteerID != nil {
		vol, err := pq.IncCompletedTasks(ctx, *req.VolunteerID)
		if err != nil {
			return fmt.Errorf("incrementing completed tasks: %w", err)
		}
		rel := score.VolunteerReliability(vol.CompletedTasks)
		if err := pq.SetReliability(ctx, vol.ID, rel); err != nil {
			return fmt.Errorf("updating volunteer reliability: %w", err)
		}
		log.Debug(ctx, "volunteer reliability updated",
			log.ID("volunteer_id", vol.ID),
			slog.Float64("reliability_score", rel),
		)
	}
	owner, err := pq.IncCompletedRequests(ctx, ngo)
	if err != nil {
		return fmt.Errorf("incrementing completed requests: %w", err)
	}
	rel := score.RequesterReliability(
		owner.CompletedRequests, owner.TotalRequests,
	)
	if err := pq.SetReliability(ctx, owner.ID, rel); err != nil {
		return fmt.Errorf("updating NGO reliability: %w", err)
	}
	return nil
}
