// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bcrypt_test

import (
	"testing"

	"github.com/smartplate/smartplate/pkg/adapter/hash/bcrypt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xbcrypt "golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	// the minimum cost keeps the test fast
	h := bcrypt.New(xbcrypt.MinCost)

	encoded, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", encoded)

	ok, err := h.Verify("s3cret!", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", encoded)
	require.NoError(t, err, "a mismatch is a false return, not an error")
	assert.False(t, ok)
}

func TestVerifyMalformedHash(t *testing.T) {
	h := bcrypt.New(0)
	_, err := h.Verify("s3cret!", "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestHashesAreSalted(t *testing.T) {
	h := bcrypt.New(xbcrypt.MinCost)
	first, err := h.Hash("s3cret!")
	require.NoError(t, err)
	second, err := h.Hash("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
