// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smartplate/smartplate/pkg/core/auth"
)

// claimsKey is the context key under which the Authenticate middleware
// stores the verified token claims.
const claimsKey = "authClaims"

// Authenticate returns a middleware which requires a valid bearer
// token on every request of its group, resolving the acting
// participant's claims for the downstream handlers. Requests without
// a verifiable token are rejected with a 401 status code.
func Authenticate(i auth.Issuer) HandlerFunc {
	return func(c *gin.Context) {
		const prefix = "Bearer "
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "missing bearer token",
			})
			return
		}
		claims, err := i.Verify(strings.TrimPrefix(h, prefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "invalid or expired token",
			})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Claims returns the verified claims stored by the Authenticate
// middleware, or nil when the request was not authenticated.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}
