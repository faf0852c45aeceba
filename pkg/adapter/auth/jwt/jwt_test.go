// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package jwt_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/adapter/auth/jwt"
	"github.com/smartplate/smartplate/pkg/core/auth"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := jwt.New("", time.Hour)
	assert.Error(t, err, "an empty secret must be rejected")

	i, err := jwt.New("test-secret", 0)
	require.NoError(t, err)
	assert.NotNil(t, i, "a zero validity falls back to the default")
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	i, err := jwt.New("test-secret", time.Hour)
	require.NoError(t, err)

	subject := uuid.New()
	token, err := i.Issue(auth.Claims{
		Subject: subject,
		Role:    model.RoleVolunteer,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := i.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.Subject)
	assert.Equal(t, model.RoleVolunteer, claims.Role)
}

func TestVerifyRejections(t *testing.T) {
	i, err := jwt.New("test-secret", time.Hour)
	require.NoError(t, err)
	token, err := i.Issue(auth.Claims{
		Subject: uuid.New(),
		Role:    model.RoleNGO,
	})
	require.NoError(t, err)

	_, err = i.Verify("not.a.token")
	assert.Error(t, err, "malformed token")

	_, err = i.Verify(token + "x")
	assert.Error(t, err, "tampered signature")

	foreign, err := jwt.New("another-secret", time.Hour)
	require.NoError(t, err)
	_, err = foreign.Verify(token)
	assert.Error(t, err, "foreign-key signed token")
}
