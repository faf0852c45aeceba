// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package auth declares the identity token collaborator. The core
// trusts the id and role resolved from a verified token and only
// enforces the role and ownership guards of the lifecycle itself.
package auth

import (
	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/core/model"
)

// Claims identify the acting participant for one action.
type Claims struct {
	Subject uuid.UUID
	Role    model.Role
}

// Issuer creates and verifies access tokens for registered
// participants.
type Issuer interface {
	// Issue creates a signed token carrying the participant id and
	// role.
	Issue(c Claims) (string, error)

	// Verify parses and validates a token, returning its claims.
	Verify(token string) (*Claims, error)
}
