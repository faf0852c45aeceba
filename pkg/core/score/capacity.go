// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package score

import (
	"math"

	"github.com/smartplate/smartplate/pkg/core/model"
)

// DefaultScore is the neutral score used wherever a participant has
// no usable history yet.
const DefaultScore = model.DefaultReliability

// baseCapacity maps each transport mode to its base carrying
// capacity. Unrecognized modes fall back to the mid-tier two-wheeler
// capacity rather than failing, since volunteer records may predate
// the current mode enum.
var baseCapacity = map[model.TransportMode]float64{
	model.TransportVan:        10,
	model.TransportCar:        7,
	model.TransportTwoWheeler: 5,
	model.TransportBicycle:    3,
	model.TransportOnFoot:     2,
}

// Capacity computes a volunteer's effective carrying capacity for a
// specific job. The base capacity of the transport mode is reduced by
// a distance penalty capped at 3 and by a quantity penalty which sets
// in above 50 units. The result is intentionally unclamped and may go
// negative for large or distant jobs on weak transport; the
// escalation policy keys off such low values.
func Capacity(mode model.TransportMode, distanceKm float64, quantity int) float64 {
	capacity, ok := baseCapacity[mode]
	if !ok {
		capacity = baseCapacity[model.TransportTwoWheeler]
	}
	distancePenalty := math.Min(distanceKm/10, 3)
	quantityPenalty := math.Max(0, float64(quantity-50)/20)
	return capacity - distancePenalty - quantityPenalty
}
