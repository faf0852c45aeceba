// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package usersrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/adapter/restful/gin/serdser"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/usecase/useruc"
)

type rawRegisterReq struct {
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Name     string   `json:"name" binding:"required"`
	Role     string   `json:"role" binding:"required,oneof=ngo donor volunteer admin"`
	Phone    string   `json:"phone" binding:"omitempty"`
	Location string   `json:"location" binding:"omitempty"`
	Lat      *float64 `json:"lat" binding:"omitempty"`
	Lon      *float64 `json:"lon" binding:"omitempty"`

	TransportMode string `json:"transport_mode" binding:"omitempty,oneof=van car two_wheeler bicycle on_foot"`
	Organization  string `json:"organization" binding:"omitempty"`
	DonorType     string `json:"donor_type" binding:"omitempty"`
}

func (rs *resource) DserRegisterReq(c *gin.Context) *useruc.RegisterInput {
	req := &rawRegisterReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	role, err := model.ParseRole(req.Role)
	if err != nil {
		serdser.AddErr(&errs, "role", err.Error())
		return nil
	}
	in := &useruc.RegisterInput{
		Email:         req.Email,
		Password:      req.Password,
		Name:          req.Name,
		Role:          role,
		Phone:         req.Phone,
		Location:      req.Location,
		TransportMode: model.TransportMode(req.TransportMode),
		Organization:  req.Organization,
		DonorType:     req.DonorType,
	}
	if serdser.Assert(
		&errs, (req.Lat == nil) == (req.Lon == nil),
		"lat/lon", "Both lat and lon must be given together.",
	) && req.Lat != nil {
		coord := &model.Coordinate{Lat: *req.Lat, Lon: *req.Lon}
		if serdser.Assert(
			&errs, coord.Validate() == nil,
			"lat/lon", "Coordinate is out of range.",
		) {
			in.Coordinate = coord
		}
	}
	if role == model.RoleVolunteer {
		serdser.Assert(
			&errs, req.TransportMode != "",
			"transport_mode", "Volunteers must declare a transport mode.",
		)
	}
	if errs == nil {
		return in
	}
	return nil
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (rs *resource) DserLoginReq(c *gin.Context) *loginReq {
	req := &loginReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	return req
}

type rawVerifyReq struct {
	NGO    string `json:"user_id" binding:"required,uuid4"`
	Status string `json:"status" binding:"required,oneof=verified rejected"`
	Notes  string `json:"notes" binding:"omitempty"`
}

type verifyReq struct {
	NGO    uuid.UUID
	Status model.VerificationStatus
	Notes  string
}

func (rs *resource) DserVerifyReq(c *gin.Context) *verifyReq {
	req := &rawVerifyReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	val := &verifyReq{Notes: req.Notes}
	var err error
	val.NGO, err = uuid.Parse(req.NGO)
	if err != nil {
		serdser.AddErr(&errs, "user_id", "Field user_id is not UUID.")
		return nil
	}
	val.Status, err = model.ParseVerificationStatus(req.Status)
	if err != nil {
		serdser.AddErr(&errs, "status", err.Error())
		return nil
	}
	return val
}
