// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package hash declares the password hashing collaborator of the
// registration use case, keeping the core independent of the hashing
// implementation in the adapter layer.
package hash

// Hasher computes and verifies password hashes.
type Hasher interface {
	// Hash computes a self-describing hash string for the given
	// plaintext password.
	Hash(password string) (string, error)

	// Verify reports whether the plaintext password matches the
	// stored hash string. A mismatch is a false return, not an error;
	// errors indicate a malformed hash.
	Verify(password, encoded string) (bool, error)
}
