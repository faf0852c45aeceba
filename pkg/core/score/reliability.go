// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package score

import "math"

// VolunteerReliability computes a volunteer's reliability score from
// the number of completed delivery tasks. The score starts at the 5.0
// default and climbs asymptotically toward 10 as history grows; there
// is no decay path for abandoned or failed deliveries.
func VolunteerReliability(completedTasks int) float64 {
	return math.Min(10, 5+float64(completedTasks)/10)
}

// RequesterReliability computes an NGO's reliability score as a pure
// completion ratio scaled to 0..10. The total counter is incremented
// at request creation, so the ratio is well-defined once at least one
// request exists; with no requests the neutral default applies.
func RequesterReliability(completed, total int) float64 {
	if total <= 0 {
		return DefaultScore
	}
	return math.Min(10, float64(completed)/float64(total)*10)
}
