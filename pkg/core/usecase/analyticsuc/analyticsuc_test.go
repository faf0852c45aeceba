// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package analyticsuc_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/internal/test/memrepo"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/usecase/analyticsuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalytics(store *memrepo.Store) *analyticsuc.UseCase {
	return analyticsuc.New(
		store.Pool(), store.Requests(), store.Participants(),
	)
}

func seedParticipant(store *memrepo.Store, role model.Role) {
	store.AddParticipant(&model.Participant{
		ID:    uuid.New(),
		Email: uuid.NewString() + "@smartplate.example",
		Role:  role,
	})
}

func seedRequest(
	store *memrepo.Store, status model.Status, people int, day time.Time,
) {
	store.AddRequest(&model.Request{
		ID:          uuid.New(),
		RequesterID: uuid.New(),
		Status:      status,
		PeopleCount: people,
		CreatedAt:   day,
	})
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	store := memrepo.NewStore()
	seedParticipant(store, model.RoleNGO)
	seedParticipant(store, model.RoleNGO)
	seedParticipant(store, model.RoleDonor)
	seedParticipant(store, model.RoleVolunteer)
	seedParticipant(store, model.RoleAdmin)

	day := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)
	seedRequest(store, model.StatusPending, 20, day)
	seedRequest(store, model.StatusCompleted, 30, day)
	seedRequest(store, model.StatusCompleted, 50, day.AddDate(0, 0, 1))

	stats, err := newAnalytics(store).Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRequests)
	assert.Equal(t, 2, stats.CompletedRequests)
	assert.Equal(t, 80, stats.TotalPeopleFed)
	assert.Equal(t, 2, stats.NGOCount)
	assert.Equal(t, 1, stats.DonorCount)
	assert.Equal(t, 1, stats.VolunteerCount)
	assert.InDelta(t, 66.67, stats.SuccessRate, 1e-9,
		"2/3 rounds to two decimals")

	require.Len(
		t, stats.StatusDistribution, 7,
		"every lifecycle status appears, zero-filled if absent",
	)
	assert.Equal(t, 1, stats.StatusDistribution["pending"])
	assert.Equal(t, 2, stats.StatusDistribution["completed"])
	assert.Equal(t, 0, stats.StatusDistribution["in_transit"])
}

func TestDashboardEmptyPlatform(t *testing.T) {
	ctx := context.Background()
	store := memrepo.NewStore()

	stats, err := newAnalytics(store).Dashboard(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRequests)
	assert.Zero(
		t, stats.SuccessRate,
		"no requests yield a zero rate, not a division by zero",
	)
	assert.Len(t, stats.StatusDistribution, 7)
}

func TestTrends(t *testing.T) {
	ctx := context.Background()
	store := memrepo.NewStore()

	day1 := time.Date(2026, time.August, 28, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	// the second day was created first; trends must still sort by day
	seedRequest(store, model.StatusCompleted, 25, day2)
	seedRequest(store, model.StatusCompleted, 10, day1)
	seedRequest(store, model.StatusCompleted, 15, day1)
	seedRequest(store, model.StatusPending, 99, day1)

	trends, err := newAnalytics(store).Trends(ctx)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, model.DailyTrend{
		Date: "2026-08-28", Requests: 2, PeopleFed: 25,
	}, trends[0])
	assert.Equal(t, model.DailyTrend{
		Date: "2026-08-29", Requests: 1, PeopleFed: 25,
	}, trends[1])
}

func TestTrendsEmptyPlatform(t *testing.T) {
	trends, err := newAnalytics(memrepo.NewStore()).Trends(
		context.Background(),
	)
	require.NoError(t, err)
	assert.NotNil(t, trends, "clients receive an empty list, not null")
	assert.Empty(t, trends)
}
