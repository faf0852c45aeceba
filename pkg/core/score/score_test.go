// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package score_test

import (
	"testing"
	"time"

	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/score"
	"github.com/stretchr/testify/assert"
)

func TestUrgencyMalformedDeadline(t *testing.T) {
	assert.Equal(
		t, score.DefaultScore, score.Urgency(100, "not-a-date", nil),
		"a malformed deadline must degrade to the neutral score",
	)
	assert.Equal(
		t, score.DefaultScore, score.Urgency(100, "", nil),
	)
}

func TestUrgencyPastDeadline(t *testing.T) {
	// A deadline in the past clamps the time axis at 10.
	past := "2020-01-01T00:00"
	assert.Equal(t, 9.0, score.Urgency(100, past, nil),
		"10*0.5 + 10*0.3 + 5*0.2")
	assert.Equal(t, 6.0, score.Urgency(0, past, nil),
		"10*0.5 + 0*0.3 + 5*0.2")
	assert.Equal(t, 10.0, score.Urgency(
		100, past, &score.History{ReliabilityScore: 10},
	))
	assert.Equal(t, 10.0, score.Urgency(
		100, past, &score.History{ReliabilityScore: 15},
	), "history contribution is capped at 10")
}

func TestUrgencyFarDeadline(t *testing.T) {
	// 300 hours out, the time axis clamps at 0.
	far := time.Now().Add(300 * time.Hour).Format(time.RFC3339)
	assert.Equal(t, 2.5, score.Urgency(50, far, nil),
		"0*0.5 + 5*0.3 + 5*0.2")
}

func TestUrgencyMidRangeDeadline(t *testing.T) {
	// 24 hours out, the time axis sits at 8.
	soon := time.Now().Add(24 * time.Hour).Format(time.RFC3339)
	assert.InDelta(t, 6.2, score.Urgency(40, soon, nil), 0.01,
		"8*0.5 + 4*0.3 + 5*0.2")
}

func TestCapacity(t *testing.T) {
	for _, tc := range []struct {
		name       string
		mode       model.TransportMode
		distanceKm float64
		quantity   int
		expected   float64
	}{
		{"van nearby", model.TransportVan, 0, 0, 10},
		{"van capped distance penalty", model.TransportVan, 100, 0, 7},
		{"car mid job", model.TransportCar, 20, 90, 3},
		{"two-wheeler", model.TransportTwoWheeler, 10, 50, 4},
		{"bicycle", model.TransportBicycle, 5, 60, 2},
		{"on foot overloaded", model.TransportOnFoot, 100, 200, -8.5},
		{"unknown mode falls back", model.TransportMode("hoverboard"), 0, 0, 5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(
				t, tc.expected,
				score.Capacity(tc.mode, tc.distanceKm, tc.quantity),
				1e-9,
			)
		})
	}
}

func TestVolunteerReliability(t *testing.T) {
	assert.Equal(t, 5.0, score.VolunteerReliability(0))
	assert.Equal(t, 5.1, score.VolunteerReliability(1))
	assert.Equal(t, 7.5, score.VolunteerReliability(25))
	assert.Equal(t, 10.0, score.VolunteerReliability(50))
	assert.Equal(t, 10.0, score.VolunteerReliability(500),
		"the curve saturates at 10")
}

func TestRequesterReliability(t *testing.T) {
	assert.Equal(t, score.DefaultScore, score.RequesterReliability(0, 0),
		"no history yields the neutral score")
	assert.Equal(t, 7.5, score.RequesterReliability(3, 4))
	assert.Equal(t, 10.0, score.RequesterReliability(10, 10))
	assert.Equal(t, 0.0, score.RequesterReliability(0, 5))
	assert.Equal(t, 10.0, score.RequesterReliability(15, 10),
		"the ratio is capped at 10")
}
