// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by ORM
// libraries) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultReliability is the neutral reliability score assigned to
// every newly registered participant. The reliability tracker moves
// the score within [0, 10] from this starting point.
const DefaultReliability = 5.0

// Role specifies the single role a registered participant acts in.
// Although this enum is numeric, it is (de)serialized as a string for
// readability in the adapter layer.
type Role int

// Valid values for the Role enum.
const (
	RoleInvalid Role = iota // zero value is invalid

	RoleNGO       // requester; raises food requests for people in need
	RoleDonor     // offers surplus food by accepting requests
	RoleVolunteer // carries accepted donations to the requester
	RoleAdmin     // coordinator; verifies NGOs and oversees the system
)

// ErrUnknownRole indicates that a given string may not be parsed as a
// valid/known participant role.
var ErrUnknownRole = errors.New("unknown role")

// RoleError indicates an invalid role, containing the invalid value
// as an integer.
type RoleError int

// Error implements the error interface, returning a string
// representation of the RoleError.
func (e RoleError) Error() string {
	return fmt.Sprintf("invalid role: %d", int(e))
}

// Validate returns nil if the Role value is valid. For invalid values,
// an instance of the RoleError will be returned.
func (r Role) Validate() error {
	switch r {
	case RoleNGO, RoleDonor, RoleVolunteer, RoleAdmin:
		return nil
	default:
		return RoleError(r)
	}
}

// String converts the Role enum to a string, helping to serialize it
// for transmission to web clients. Invalid role causes a panic.
func (r Role) String() string {
	switch r {
	case RoleNGO:
		return "ngo"
	case RoleDonor:
		return "donor"
	case RoleVolunteer:
		return "volunteer"
	case RoleAdmin:
		return "admin"
	default:
		panic(RoleError(r))
	}
}

// MarshalText implements the encoding.TextMarshaler interface, so
// the enum travels as its string form in JSON payloads.
func (r Role) MarshalText() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface,
// decoding the string form of the enum.
func (r *Role) UnmarshalText(data []byte) error {
	parsed, err := ParseRole(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRole parses the given string and returns a Role, helping to
// deserialize it when reading a REST API request. For invalid strings,
// RoleInvalid and ErrUnknownRole will be returned.
func ParseRole(r string) (Role, error) {
	switch r {
	case "ngo":
		return RoleNGO, nil
	case "donor":
		return RoleDonor, nil
	case "volunteer":
		return RoleVolunteer, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleInvalid, ErrUnknownRole
	}
}

// TransportMode specifies how a volunteer carries a donation.
// The capacity scorer maps each mode to a base carrying capacity;
// unrecognized modes are treated as the mid-tier two-wheeler there,
// while the Parse function below stays strict for registration input.
type TransportMode string

// Valid values for the TransportMode enum.
const (
	TransportVan        TransportMode = "van"
	TransportCar        TransportMode = "car"
	TransportTwoWheeler TransportMode = "two_wheeler"
	TransportBicycle    TransportMode = "bicycle"
	TransportOnFoot     TransportMode = "on_foot"
)

// ErrUnknownTransportMode indicates that a given string may not be
// parsed as a valid/known transport mode.
var ErrUnknownTransportMode = errors.New("unknown transport mode")

// ParseTransportMode parses the given string and returns a
// TransportMode. For invalid strings, an empty mode and
// ErrUnknownTransportMode will be returned.
func ParseTransportMode(m string) (TransportMode, error) {
	switch mode := TransportMode(m); mode {
	case TransportVan, TransportCar, TransportTwoWheeler,
		TransportBicycle, TransportOnFoot:
		return mode, nil
	default:
		return "", ErrUnknownTransportMode
	}
}

// VerificationStatus specifies where an NGO stands in the document
// verification workflow. Only verified NGOs may create food requests.
type VerificationStatus string

// Valid values for the VerificationStatus enum.
const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// ErrUnknownVerificationStatus indicates that a given string may not
// be parsed as a valid/known verification status.
var ErrUnknownVerificationStatus = errors.New(
	"unknown verification status",
)

// ParseVerificationStatus parses the given string and returns a
// VerificationStatus. Only the two decision states are accepted since
// the pending state is never set through the API.
func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch st := VerificationStatus(s); st {
	case VerificationVerified, VerificationRejected:
		return st, nil
	default:
		return "", ErrUnknownVerificationStatus
	}
}

// Participant models a registered actor with a single role.
// Reliability scores stay within [0, 10] and every counter is
// monotonically non-decreasing; both are mutated exclusively by the
// request lifecycle use case. Participants are never deleted by the
// core.
type Participant struct {
	ID           uuid.UUID   `json:"user_id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Name         string      `json:"name"`
	Role         Role        `json:"role"`
	Phone        string      `json:"phone,omitempty"`
	Location     string      `json:"location"`
	Coordinate   *Coordinate `json:"coordinate,omitempty"`

	// Volunteer specific attributes.
	TransportMode  TransportMode `json:"transport_mode,omitempty"`
	CompletedTasks int           `json:"completed_tasks"`

	// NGO specific attributes.
	Organization       string             `json:"organization,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status,omitempty"`
	VerificationNotes  string             `json:"verification_notes,omitempty"`
	TotalRequests      int                `json:"total_requests"`
	CompletedRequests  int                `json:"completed_requests"`

	// Donor specific attributes.
	DonorType      string `json:"donor_type,omitempty"`
	TotalDonations int    `json:"total_donations"`

	ReliabilityScore float64   `json:"reliability_score"`
	CreatedAt        time.Time `json:"created_at"`
}

// Verified reports whether the participant is an NGO which passed the
// document verification and so may create food requests.
func (p *Participant) Verified() bool {
	return p.Role == RoleNGO &&
		p.VerificationStatus == VerificationVerified
}
