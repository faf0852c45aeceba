// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package score contains the pure scoring functions of the donation
// engine: request urgency, volunteer carrying capacity, and the
// reliability updates applied on completion. All functions are
// stateless; the lifecycle use case owns when they run and where
// their results are persisted.
package score

import (
	"math"
	"time"
)

// Weights of the urgency composite. Deadline pressure dominates,
// request size comes second, and requester history acts as a small
// correction term.
const (
	urgencyTimeWeight     = 0.5
	urgencyQuantityWeight = 0.3
	urgencyHistoryWeight  = 0.2
)

// requiredAtLayout is the timestamp layout of a request's combined
// required date and time, e.g. "2026-03-01T18:30".
const requiredAtLayout = "2006-01-02T15:04"

// History carries the requester attributes which influence the
// urgency score of a new request.
type History struct {
	ReliabilityScore float64
}

// Urgency computes the 0..10 urgency score of a request from the
// number of people to feed, the required delivery timestamp, and the
// optional requester history, rounded to two decimals.
//
// A deadline right now scores 10 on the time axis and one 120 hours
// out scores 0; deadlines already in the past clamp to 10 as well.
// A malformed requiredAt degrades to the neutral 5.0 instead of
// failing, so urgency scoring never blocks request creation.
func Urgency(peopleCount int, requiredAt string, history *History) float64 {
	requiredDt, err := parseRequiredAt(requiredAt)
	if err != nil {
		return DefaultScore
	}
	hours := time.Until(requiredDt).Hours()

	timeScore := clamp(10-(hours/24)*2, 0, 10)
	quantityScore := clamp(float64(peopleCount)/100*10, 0, 10)
	historyScore := DefaultScore
	if history != nil {
		historyScore = math.Min(10, history.ReliabilityScore)
	}

	urgency := timeScore*urgencyTimeWeight +
		quantityScore*urgencyQuantityWeight +
		historyScore*urgencyHistoryWeight
	return math.Round(urgency*100) / 100
}

// parseRequiredAt accepts the minute-precision layout used by the
// request creation form and the RFC 3339 layout for callers which
// supply a full timestamp.
func parseRequiredAt(s string) (time.Time, error) {
	if t, err := time.Parse(requiredAtLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
