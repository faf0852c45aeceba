// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package requestsrs realizes the food requests resource, allowing the
// request lifecycle REST APIs to be accepted and delegated to the
// lifecycle use case respectively. Role and ownership guards are not
// enforced here; the use case decides and the resource only reports.
package requestsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	rgin "github.com/smartplate/smartplate/pkg/adapter/restful/gin"
	"github.com/smartplate/smartplate/pkg/adapter/restful/gin/serdser"
	"github.com/smartplate/smartplate/pkg/core/usecase/requestuc"
)

type resource struct {
	lifecycle *requestuc.UseCase
}

// Register instantiates a resource adapting the lifecycle use case
// instance with the relevant REST APIs including:
//  1. POST request to /api/smartplate/v1/ngo/requests
//     in order to raise a new food request.
//  2. GET request to /api/smartplate/v1/ngo/requests
//     in order to list the acting NGO's own requests.
//  3. POST request to /api/smartplate/v1/ngo/confirm-receipt
//     in order to complete a delivered request.
//  4. GET request to /api/smartplate/v1/donor/requests
//     in order to browse pending requests, most urgent first.
//  5. POST request to /api/smartplate/v1/donor/accept
//     in order to claim a pending request.
//  6. GET request to /api/smartplate/v1/donor/my-donations
//     in order to list the acting donor's accepted requests.
//  7. GET request to /api/smartplate/v1/volunteer/tasks
//     in order to list the acting volunteer's open tasks.
//  8. POST request to /api/smartplate/v1/volunteer/update-status
//     in order to advance the delivery status by one step.
func Register(r *gin.RouterGroup, lifecycle *requestuc.UseCase) {
	rs := &resource{lifecycle: lifecycle}
	r.POST("ngo/requests", rs.CreateRequest)
	r.GET("ngo/requests", rs.ListOwnRequests)
	r.POST("ngo/confirm-receipt", rs.ConfirmReceipt)
	r.GET("donor/requests", rs.ListPendingRequests)
	r.POST("donor/accept", rs.AcceptRequest)
	r.GET("donor/my-donations", rs.ListDonations)
	r.GET("volunteer/tasks", rs.ListTasks)
	r.POST("volunteer/update-status", rs.UpdateStatus)
}

func (rs *resource) CreateRequest(c *gin.Context) {
	claims := rgin.Claims(c)
	in := rs.DserCreateReq(c)
	if in == nil {
		return
	}
	req, err := rs.lifecycle.Create(c, claims.Subject, *in)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (rs *resource) ListOwnRequests(c *gin.Context) {
	claims := rgin.Claims(c)
	reqs, err := rs.lifecycle.RequesterRequests(c, claims.Subject)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (rs *resource) ConfirmReceipt(c *gin.Context) {
	claims := rgin.Claims(c)
	req := rs.DserConfirmReq(c)
	if req == nil {
		return
	}
	r, err := rs.lifecycle.ConfirmReceipt(
		c, claims.Subject, req.RequestID, req.In,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (rs *resource) ListPendingRequests(c *gin.Context) {
	reqs, err := rs.lifecycle.PendingRequests(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (rs *resource) AcceptRequest(c *gin.Context) {
	claims := rgin.Claims(c)
	req := rs.DserAcceptReq(c)
	if req == nil {
		return
	}
	r, err := rs.lifecycle.Accept(c, claims.Subject, req.RequestID, req.In)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (rs *resource) ListDonations(c *gin.Context) {
	claims := rgin.Claims(c)
	reqs, err := rs.lifecycle.DonorDonations(c, claims.Subject)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (rs *resource) ListTasks(c *gin.Context) {
	claims := rgin.Claims(c)
	reqs, err := rs.lifecycle.VolunteerTasks(c, claims.Subject)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (rs *resource) UpdateStatus(c *gin.Context) {
	claims := rgin.Claims(c)
	req := rs.DserUpdateStatusReq(c)
	if req == nil {
		return
	}
	r, err := rs.lifecycle.UpdateStatus(
		c, claims.Subject, req.RequestID, req.In,
	)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
