// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package match contains the volunteer matching policies: selection
// of the best-fit primary volunteer for an accepted donation and the
// escalation rules which recruit a second volunteer when the primary
// capacity is insufficient. The policies are pure; the lifecycle use
// case feeds them a consistently read volunteer pool and persists
// their outcome.
package match

import (
	"errors"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/score"
)

// Default values for the matching policy parameters.
const (
	DefaultNeutralDistanceKm   = 25.0
	DefaultEscalationThreshold = 2.0
)

// Params carries the tunable knobs of the matching policies. The zero
// value disables the neutral distance penalty and escalates every
// assignment; start from DefaultParams instead.
type Params struct {
	// NeutralDistanceKm is the distance assumed between two parties
	// when either side lacks coordinates, keeping free-text-only
	// participants matchable with a deterministic mid-range penalty.
	NeutralDistanceKm float64

	// EscalationThreshold is the capacity score below which a task is
	// considered too demanding for a single volunteer.
	EscalationThreshold float64
}

// DefaultParams returns the standard matching policy parameters.
func DefaultParams() Params {
	return Params{
		NeutralDistanceKm:   DefaultNeutralDistanceKm,
		EscalationThreshold: DefaultEscalationThreshold,
	}
}

// Validate returns nil if the mp parameters are acceptable.
func (mp Params) Validate() error {
	if mp.NeutralDistanceKm < 0 {
		return errors.New("neutral distance may not be negative")
	}
	return nil
}

// Candidate is an ephemeral (volunteer, request) pairing evaluated
// during one assignment decision. It is never persisted.
type Candidate struct {
	Volunteer *model.Participant
	Distance  float64 // km between volunteer and pickup location
	Capacity  float64 // capacity score for this specific job
	Score     float64 // composite selection score
}

// distance resolves the matching distance between a volunteer and the
// request pickup location, degrading to the neutral distance when
// either coordinate is missing or invalid.
func (mp Params) distance(vol *model.Participant, req *model.Request) float64 {
	if d := model.SafeDistance(vol.Coordinate, req.PickupCoordinate); d != nil {
		return *d
	}
	return mp.NeutralDistanceKm
}

// BuildCandidates evaluates every volunteer of the pool against the
// given request. The input order is preserved, so a deterministic
// pool order yields a deterministic selection.
func (mp Params) BuildCandidates(vols []*model.Participant, req *model.Request) []Candidate {
	cands := make([]Candidate, 0, len(vols))
	for _, vol := range vols {
		d := mp.distance(vol, req)
		capacity := score.Capacity(vol.TransportMode, d, req.Quantity)
		cands = append(cands, Candidate{
			Volunteer: vol,
			Distance:  d,
			Capacity:  capacity,
			Score:     capacity + vol.ReliabilityScore/2 - d/10,
		})
	}
	return cands
}

// SelectPrimary picks the candidate with the strictly highest
// composite score; ties keep the first encountered candidate. The
// second return value is false for an empty pool, which is a valid
// no-assignment outcome rather than an error.
func SelectPrimary(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	best := cands[0]
	for _, cand := range cands[1:] {
		if cand.Score > best.Score {
			best = cand
		}
	}
	return best, true
}

// exclude filters out the volunteer with the given id, preserving the
// pool order.
func exclude(vols []*model.Participant, id uuid.UUID) []*model.Participant {
	rest := make([]*model.Participant, 0, len(vols))
	for _, vol := range vols {
		if vol.ID != id {
			rest = append(rest, vol)
		}
	}
	return rest
}
