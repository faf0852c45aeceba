// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package jwt adapts the github.com/golang-jwt/jwt module to the core
// auth.Issuer interface, issuing HS256 signed tokens which carry the
// participant id and role.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/core/auth"
	"github.com/smartplate/smartplate/pkg/core/model"
)

// DefaultValidity is the lifetime of issued tokens when no explicit
// validity duration is configured.
const DefaultValidity = 7 * 24 * time.Hour

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer creates and verifies HS256 signed access tokens. It
// implements the core auth.Issuer interface.
type Issuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// New instantiates an Issuer signing with the given secret. A zero or
// negative validity falls back to the DefaultValidity.
func New(secret string, validity time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret must be non-empty")
	}
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &Issuer{
		secret:   []byte(secret),
		validity: validity,
		now:      time.Now,
	}, nil
}

// Issue creates a signed token carrying the participant id as the
// subject and its role as a private claim.
func (i *Issuer) Issue(c auth.Claims) (string, error) {
	now := i.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: c.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.Subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
	})
	token, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

// Verify parses and validates a token, returning the carried claims.
// Expired, malformed, or foreign-key signed tokens are rejected.
func (i *Issuer) Verify(token string) (*auth.Claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(
		token, &c,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf(
					"unexpected signing method: %v", t.Header["alg"],
				)
			}
			return i.secret, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	subject, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("parsing subject: %w", err)
	}
	role, err := model.ParseRole(c.Role)
	if err != nil {
		return nil, fmt.Errorf("parsing role: %w", err)
	}
	return &auth.Claims{Subject: subject, Role: role}, nil
}
