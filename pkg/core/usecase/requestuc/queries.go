// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package requestuc

import (
	"context"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/repo"
)

// RequesterRequests lists the requests raised by the given NGO.
func (rl *UseCase) RequesterRequests(
	ctx context.Context, requester uuid.UUID,
) (reqs []*model.Request, err error) {
	err = rl.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		reqs, err = rl.requestsrp.Conn(c).ByRequester(ctx, requester)
		return err
	})
	if err != nil {
		reqs = nil
	}
	return
}

// PendingRequests lists all pending requests with the most urgent
// first, for donors browsing open needs.
func (rl *UseCase) PendingRequests(
	ctx context.Context,
) (reqs []*model.Request, err error) {
	err = rl.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		reqs, err = rl.requestsrp.Conn(c).PendingByUrgency(ctx)
		return err
	})
	if err != nil {
		reqs = nil
	}
	return
}

// DonorDonations lists the requests accepted by the given donor.
func (rl *UseCase) DonorDonations(
	ctx context.Context, donor uuid.UUID,
) (reqs []*model.Request, err error) {
	err = rl.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		reqs, err = rl.requestsrp.Conn(c).ByDonor(ctx, donor)
		return err
	})
	if err != nil {
		reqs = nil
	}
	return
}

// VolunteerTasks lists the open tasks on which the given volunteer
// acts as primary or co-volunteer.
func (rl *UseCase) VolunteerTasks(
	ctx context.Context, volunteer uuid.UUID,
) (reqs []*model.Request, err error) {
	err = rl.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		reqs, err = rl.requestsrp.Conn(c).VolunteerTasks(ctx, volunteer)
		return err
	})
	if err != nil {
		reqs = nil
	}
	return
}
