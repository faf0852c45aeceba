// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package analyticsuc contains the platform analytics UseCase: the
// dashboard snapshot and the daily completion trends. Both are plain
// read paths composing aggregate queries of the requests and
// participants repositories; nothing here mutates state.
package analyticsuc

import (
	"context"
	"fmt"
	"math"

	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/repo"
)

// UseCase represents the analytics use case. It holds a database
// connection pool and the requests and participants repository
// instances (to be guided with the DB pool).
type UseCase struct {
	pool           repo.Pool
	requestsrp     repo.Requests
	participantsrp repo.Participants
}

// New instantiates an analytics use case.
func New(
	p repo.Pool, rs repo.Requests, ps repo.Participants,
) *UseCase {
	return &UseCase{pool: p, requestsrp: rs, participantsrp: ps}
}

// Dashboard composes the platform-wide snapshot: request and
// participant counts, fed people over completed requests, the success
// rate percentage, and the per-status distribution. The distribution
// covers every lifecycle status, zero-filled for statuses without
// requests, so clients never need to probe for missing keys.
func (an *UseCase) Dashboard(
	ctx context.Context,
) (stats *model.DashboardStats, err error) {
	var aggs []model.StatusAggregate
	var roles map[model.Role]int
	err = an.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		aggs, err = an.requestsrp.Conn(c).StatusAggregates(ctx)
		if err != nil {
			return fmt.Errorf("aggregating requests: %w", err)
		}
		roles, err = an.participantsrp.Conn(c).RoleCounts(ctx)
		if err != nil {
			return fmt.Errorf("counting participants: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	stats = &model.DashboardStats{
		NGOCount:           roles[model.RoleNGO],
		DonorCount:         roles[model.RoleDonor],
		VolunteerCount:     roles[model.RoleVolunteer],
		StatusDistribution: make(map[string]int),
	}
	for s := model.StatusPending; s <= model.StatusCompleted; s++ {
		stats.StatusDistribution[s.String()] = 0
	}
	for _, agg := range aggs {
		stats.TotalRequests += agg.Requests
		stats.StatusDistribution[agg.Status.String()] = agg.Requests
		if agg.Status == model.StatusCompleted {
			stats.CompletedRequests = agg.Requests
			stats.TotalPeopleFed = agg.PeopleFed
		}
	}
	if stats.TotalRequests > 0 {
		rate := float64(stats.CompletedRequests) /
			float64(stats.TotalRequests) * 100
		stats.SuccessRate = math.Round(rate*100) / 100
	}
	return stats, nil
}

// Trends lists the daily completion trends, oldest day first. A
// platform without completed requests yields an empty list, not nil.
func (an *UseCase) Trends(
	ctx context.Context,
) (trends []model.DailyTrend, err error) {
	err = an.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		trends, err = an.requestsrp.Conn(c).CompletedTrends(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if trends == nil {
		trends = []model.DailyTrend{}
	}
	return trends, nil
}
