// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bcrypt adapts the golang.org/x/crypto/bcrypt package to the
// core hash.Hasher interface. The produced hash strings are
// self-describing, embedding the salt and cost, so no extra columns
// are needed for password verification.
package bcrypt

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher computes and verifies bcrypt password hashes with a fixed
// cost factor. It implements the core hash.Hasher interface.
type Hasher struct {
	cost int
}

// New instantiates a Hasher with the given cost factor. Costs below
// the bcrypt minimum are raised to the default cost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash computes a bcrypt hash string for the given plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("generating bcrypt hash: %w", err)
	}
	return string(b), nil
}

// Verify reports whether the plaintext password matches the stored
// hash string. A mismatching password is reported as a false return
// value, while a malformed hash string is an error.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(
		[]byte(encoded), []byte(password),
	)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("comparing bcrypt hash: %w", err)
	}
}
