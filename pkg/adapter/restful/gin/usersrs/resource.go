// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrs realizes the participants resource, allowing the
// registration, login, and NGO verification REST APIs to be accepted
// and delegated to the participants use case respectively.
package usersrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	rgin "github.com/smartplate/smartplate/pkg/adapter/restful/gin"
	"github.com/smartplate/smartplate/pkg/adapter/restful/gin/serdser"
	"github.com/smartplate/smartplate/pkg/core/usecase/useruc"
)

type resource struct {
	users *useruc.UseCase
}

// Register instantiates a resource adapting the participants use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/smartplate/v1/auth/register
//     in order to register a new participant.
//  2. POST request to /api/smartplate/v1/auth/login
//     in order to verify credentials and obtain an access token.
//  3. GET request to /api/smartplate/v1/auth/me
//     in order to load the acting participant's profile.
//  4. GET request to /api/smartplate/v1/admin/pending-verifications
//     in order to list the NGOs awaiting a verification decision.
//  5. POST request to /api/smartplate/v1/admin/verify-ngo
//     in order to record an admin's verification decision.
//  6. GET request to /api/smartplate/v1/admin/users
//     in order to list all registered participants.
//
// The public and authd router groups separate the endpoints which may
// be called without a token from those which require one.
func Register(public, authd *gin.RouterGroup, users *useruc.UseCase) {
	rs := &resource{users: users}
	public.POST("auth/register", rs.RegisterUser)
	public.POST("auth/login", rs.Login)
	authd.GET("auth/me", rs.Me)
	authd.GET("admin/pending-verifications", rs.PendingVerifications)
	authd.POST("admin/verify-ngo", rs.VerifyNGO)
	authd.GET("admin/users", rs.AllUsers)
}

func (rs *resource) RegisterUser(c *gin.Context) {
	in := rs.DserRegisterReq(c)
	if in == nil {
		return
	}
	p, token, err := rs.users.Register(c, *in)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": p})
}

func (rs *resource) Login(c *gin.Context) {
	req := rs.DserLoginReq(c)
	if req == nil {
		return
	}
	p, token, err := rs.users.Login(c, req.Email, req.Password)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": p})
}

func (rs *resource) Me(c *gin.Context) {
	claims := rgin.Claims(c)
	p, err := rs.users.Get(c, claims.Subject)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (rs *resource) PendingVerifications(c *gin.Context) {
	claims := rgin.Claims(c)
	ngos, err := rs.users.PendingVerifications(c, claims.Subject)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ngos)
}

func (rs *resource) AllUsers(c *gin.Context) {
	claims := rgin.Claims(c)
	ps, err := rs.users.AllUsers(c, claims.Subject)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (rs *resource) VerifyNGO(c *gin.Context) {
	claims := rgin.Claims(c)
	req := rs.DserVerifyReq(c)
	if req == nil {
		return
	}
	p, err := rs.users.VerifyNGO(
		c, claims.Subject, req.NGO, req.Status, req.Notes,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
