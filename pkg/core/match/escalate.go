// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package match

import (
	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/core/model"
)

// ShouldEscalate decides, right after a primary assignment, whether
// the task requires a second volunteer and why. The reason is chosen
// by priority: a quantity above 100 counts as a heavy load even when
// the distance is long, a distance above 30 km as a long haul, and
// anything else as a plain capacity constraint.
func (mp Params) ShouldEscalate(capacity float64, quantity int, distanceKm float64) (bool, model.EscalationReason) {
	if capacity >= mp.EscalationThreshold {
		return false, ""
	}
	switch {
	case quantity > 100:
		return true, model.ReasonHeavyLoad
	case distanceKm > 30:
		return true, model.ReasonLongDistance
	default:
		return true, model.ReasonCapacityConstraint
	}
}

// SelectCoVolunteer picks the co-volunteer for an automatic
// escalation: the remaining volunteer (excluding the primary) with
// the highest reliability score, ties keeping the first encountered.
// The second return value is false when no other volunteer exists;
// the request then simply proceeds with a single volunteer.
func SelectCoVolunteer(vols []*model.Participant, primary uuid.UUID) (*model.Participant, bool) {
	rest := exclude(vols, primary)
	if len(rest) == 0 {
		return nil, false
	}
	best := rest[0]
	for _, vol := range rest[1:] {
		if vol.ReliabilityScore > best.ReliabilityScore {
			best = vol
		}
	}
	return best, true
}

// SelectManualCoVolunteer picks the co-volunteer for a manual
// escalation, flagged by the acting volunteer mid-delivery. The
// capacity term is dropped since the original volunteer already owns
// primary capacity; candidates are scored by reliability minus a
// distance penalty.
func (mp Params) SelectManualCoVolunteer(vols []*model.Participant, flagger uuid.UUID, req *model.Request) (*model.Participant, bool) {
	rest := exclude(vols, flagger)
	if len(rest) == 0 {
		return nil, false
	}
	best := rest[0]
	bestScore := mp.manualScore(best, req)
	for _, vol := range rest[1:] {
		if s := mp.manualScore(vol, req); s > bestScore {
			best, bestScore = vol, s
		}
	}
	return best, true
}

func (mp Params) manualScore(vol *model.Participant, req *model.Request) float64 {
	return vol.ReliabilityScore - mp.distance(vol, req)/10
}
