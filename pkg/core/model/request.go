// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status specifies where a food request stands in its lifecycle.
// The numeric values are ordered along the single legal path, so that
// adjacency checks reduce to a successor comparison. Although this
// enum is numeric, it is (de)serialized as a string for readability
// in the adapter layer.
type Status int

// Valid values for the Status enum, in lifecycle order.
// StatusPending is the sole initial state and StatusCompleted is the
// sole terminal state; there is no cancelled or rejected state.
const (
	StatusInvalid Status = iota // zero value is invalid

	StatusPending
	StatusAcceptedByDonor
	StatusAssigned
	StatusPickedUp
	StatusInTransit
	StatusDelivered
	StatusCompleted
)

// ErrUnknownStatus indicates that a given string may not be parsed as
// a valid/known request status.
var ErrUnknownStatus = errors.New("unknown request status")

// StatusError indicates an invalid request status, containing the
// invalid value as an integer.
type StatusError int

// Error implements the error interface, returning a string
// representation of the StatusError.
func (e StatusError) Error() string {
	return fmt.Sprintf("invalid request status: %d", int(e))
}

// Validate returns nil if the Status value is valid. For invalid
// values, an instance of the StatusError will be returned.
func (s Status) Validate() error {
	if s < StatusPending || s > StatusCompleted {
		return StatusError(s)
	}
	return nil
}

// String converts the Status enum to a string, helping to serialize it
// for transmission to web clients. Invalid status causes a panic.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAcceptedByDonor:
		return "accepted_by_donor"
	case StatusAssigned:
		return "assigned_to_volunteer"
	case StatusPickedUp:
		return "picked_up"
	case StatusInTransit:
		return "in_transit"
	case StatusDelivered:
		return "delivered"
	case StatusCompleted:
		return "completed"
	default:
		panic(StatusError(s))
	}
}

// MarshalText implements the encoding.TextMarshaler interface, so
// the enum travels as its string form in JSON payloads.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface,
// decoding the string form of the enum.
func (s *Status) UnmarshalText(data []byte) error {
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus parses the given string and returns a Status, helping to
// deserialize it when reading a REST API request. For invalid strings,
// StatusInvalid and ErrUnknownStatus will be returned.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "accepted_by_donor":
		return StatusAcceptedByDonor, nil
	case "assigned_to_volunteer":
		return StatusAssigned, nil
	case "picked_up":
		return StatusPickedUp, nil
	case "in_transit":
		return StatusInTransit, nil
	case "delivered":
		return StatusDelivered, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return StatusInvalid, ErrUnknownStatus
	}
}

// CanAdvance reports whether `to` is the direct successor of s on the
// lifecycle path. Only adjacent edges are legal; any other transition
// must be rejected as an invalid transition by the lifecycle engine.
func (s Status) CanAdvance(to Status) bool {
	return s.Validate() == nil && to.Validate() == nil && to == s+1
}

// VolunteerSettable reports whether s is a status which a volunteer
// may set through a delivery status update. Donor acceptance and NGO
// receipt confirmation own the remaining transitions.
func (s Status) VolunteerSettable() bool {
	switch s {
	case StatusPickedUp, StatusInTransit, StatusDelivered:
		return true
	default:
		return false
	}
}

// EscalationReason explains why a second volunteer was recruited for
// a request. The three constants below are chosen automatically by
// the escalation policy; a manual escalation attaches the free-form
// reason supplied by the flagging volunteer.
type EscalationReason string

// Automatic escalation reasons, in selection priority order.
const (
	ReasonHeavyLoad          EscalationReason = "heavy_load"
	ReasonLongDistance       EscalationReason = "long_distance"
	ReasonCapacityConstraint EscalationReason = "capacity_constraint"
)

// Request models a unit of food need, tracked from creation through
// delivery confirmation. The donor, volunteer, and co-volunteer fields
// are populated strictly in that order as the status progresses past
// the corresponding transition, and a field once set is never cleared.
// Requests are never physically deleted; completed ones remain as an
// audit trail.
type Request struct {
	ID uuid.UUID `json:"request_id"`

	// Immutable at creation.
	RequesterID         uuid.UUID   `json:"ngo_id"`
	RequesterName       string      `json:"ngo_name"`
	RequesterOrg        string      `json:"ngo_organization"`
	FoodType            string      `json:"food_type"`
	FoodCategory        string      `json:"food_category"`
	Quantity            int         `json:"quantity"`
	QuantityUnit        string      `json:"quantity_unit"`
	RequiredDate        string      `json:"required_date"`
	RequiredTime        string      `json:"required_time"`
	PickupLocation      string      `json:"pickup_location"`
	PickupCoordinate    *Coordinate `json:"pickup_coordinate,omitempty"`
	PeopleCount         int         `json:"people_count"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`

	UrgencyScore float64 `json:"urgency_score"`
	Status       Status  `json:"status"`

	// Donor side, set by the accept transition.
	DonorID          *uuid.UUID `json:"donor_id,omitempty"`
	DonorName        string     `json:"donor_name,omitempty"`
	AvailabilityTime string     `json:"availability_time,omitempty"`
	FoodCondition    string     `json:"food_condition,omitempty"`

	// Volunteer side, set by the assignment policy.
	VolunteerID   *uuid.UUID `json:"volunteer_id,omitempty"`
	VolunteerName string     `json:"volunteer_name,omitempty"`

	// Co-volunteer side, set by the escalation policy.
	CoVolunteerID    *uuid.UUID       `json:"co_volunteer_id,omitempty"`
	CoVolunteerName  string           `json:"co_volunteer_name,omitempty"`
	EscalationReason EscalationReason `json:"extra_volunteer_reason,omitempty"`
	AutoEscalated    bool             `json:"auto_triggered,omitempty"`

	DeliveryPhoto string `json:"delivery_photo,omitempty"`
	Rating        *int   `json:"ngo_rating,omitempty"`
	Feedback      string `json:"ngo_feedback,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	AssignedAt  *time.Time `json:"assigned_at,omitempty"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
	InTransitAt *time.Time `json:"in_transit_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RequiredAt combines the required date and time fields into the
// ISO-like timestamp string which the urgency scorer consumes.
func (r *Request) RequiredAt() string {
	return r.RequiredDate + "T" + r.RequiredTime
}

// ActingVolunteer reports whether the id participant is the primary
// or the co-volunteer on this request, i.e. whether it may advance
// the delivery status.
func (r *Request) ActingVolunteer(id uuid.UUID) bool {
	if r.VolunteerID != nil && *r.VolunteerID == id {
		return true
	}
	return r.CoVolunteerID != nil && *r.CoVolunteerID == id
}
