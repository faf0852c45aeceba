// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"

	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleStringRoundTrip(t *testing.T) {
	for _, r := range []model.Role{
		model.RoleNGO, model.RoleDonor, model.RoleVolunteer, model.RoleAdmin,
	} {
		t.Run(r.String(), func(t *testing.T) {
			parsed, err := model.ParseRole(r.String())
			require.NoError(t, err)
			assert.Equal(t, r, parsed)
		})
	}
	_, err := model.ParseRole("moderator")
	assert.ErrorIs(t, err, model.ErrUnknownRole)
	assert.Error(t, model.RoleInvalid.Validate())
}

func TestParseTransportMode(t *testing.T) {
	for _, m := range []string{
		"van", "car", "two_wheeler", "bicycle", "on_foot",
	} {
		mode, err := model.ParseTransportMode(m)
		require.NoError(t, err, "mode %q", m)
		assert.Equal(t, model.TransportMode(m), mode)
	}
	_, err := model.ParseTransportMode("truck")
	assert.ErrorIs(t, err, model.ErrUnknownTransportMode)
}

func TestParseVerificationStatus(t *testing.T) {
	for _, s := range []string{"verified", "rejected"} {
		st, err := model.ParseVerificationStatus(s)
		require.NoError(t, err, "status %q", s)
		assert.Equal(t, model.VerificationStatus(s), st)
	}
	// pending is the initial state and never set through the API
	_, err := model.ParseVerificationStatus("pending")
	assert.ErrorIs(t, err, model.ErrUnknownVerificationStatus)
}

func TestParticipantVerified(t *testing.T) {
	p := &model.Participant{
		Role:               model.RoleNGO,
		VerificationStatus: model.VerificationPending,
	}
	assert.False(t, p.Verified(), "pending NGO")

	p.VerificationStatus = model.VerificationVerified
	assert.True(t, p.Verified(), "verified NGO")

	p.Role = model.RoleDonor
	assert.False(t, p.Verified(), "verification is an NGO-only concept")
}
