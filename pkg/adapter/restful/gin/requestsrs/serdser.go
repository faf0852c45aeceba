// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package requestsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/adapter/restful/gin/serdser"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/usecase/requestuc"
)

type rawCreateReq struct {
	FoodType            string   `json:"food_type" binding:"required"`
	FoodCategory        string   `json:"food_category" binding:"required"`
	Quantity            int      `json:"quantity" binding:"required,gt=0"`
	QuantityUnit        string   `json:"quantity_unit" binding:"required"`
	RequiredDate        string   `json:"required_date" binding:"required"`
	RequiredTime        string   `json:"required_time" binding:"required"`
	PickupLocation      string   `json:"pickup_location" binding:"required"`
	Lat                 *float64 `json:"lat" binding:"omitempty"`
	Lon                 *float64 `json:"lon" binding:"omitempty"`
	PeopleCount         int      `json:"people_count" binding:"required,gt=0"`
	SpecialInstructions string   `json:"special_instructions" binding:"omitempty"`
}

func (rs *resource) DserCreateReq(c *gin.Context) *requestuc.CreateInput {
	req := &rawCreateReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	in := &requestuc.CreateInput{
		FoodType:            req.FoodType,
		FoodCategory:        req.FoodCategory,
		Quantity:            req.Quantity,
		QuantityUnit:        req.QuantityUnit,
		RequiredDate:        req.RequiredDate,
		RequiredTime:        req.RequiredTime,
		PickupLocation:      req.PickupLocation,
		PeopleCount:         req.PeopleCount,
		SpecialInstructions: req.SpecialInstructions,
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
			in.PickupCoordinate = coord
		}
	}
	if errs == nil {
		return in
	}
	return nil
}

type rawAcceptReq struct {
	RequestID        string `json:"request_id" binding:"required,uuid4"`
	AvailabilityTime string `json:"availability_time" binding:"omitempty"`
	FoodCondition    string `json:"food_condition" binding:"omitempty"`
}

type acceptReq struct {
	RequestID uuid.UUID
	In        requestuc.AcceptInput
}

func (rs *resource) DserAcceptReq(c *gin.Context) *acceptReq {
	req := &rawAcceptReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	id, err := uuid.Parse(req.RequestID)
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "request_id", "Field request_id is not UUID.")
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return &acceptReq{
		RequestID: id,
		In: requestuc.AcceptInput{
			AvailabilityTime: req.AvailabilityTime,
			FoodCondition:    req.FoodCondition,
		},
	}
}

type rawUpdateStatusReq struct {
	RequestID     string `json:"request_id" binding:"required,uuid4"`
	Status        string `json:"status" binding:"required,oneof=picked_up in_transit delivered"`
	DeliveryPhoto string `json:"delivery_photo" binding:"omitempty"`

	ExtraVolunteerRequired bool   `json:"extra_volunteer_required" binding:"omitempty"`
	ExtraVolunteerReason   string `json:"extra_volunteer_reason" binding:"omitempty"`
}

type updateStatusReq struct {
	RequestID uuid.UUID
	In        requestuc.UpdateStatusInput
}

func (rs *resource) DserUpdateStatusReq(c *gin.Context) *updateStatusReq {
	req := &rawUpdateStatusReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	defer func() {
		if errs != nil {
			c.JSON(http.StatusBadRequest, errs)
		}
	}()
	id, err := uuid.Parse(req.RequestID)
	if err != nil {
		serdser.AddErr(&errs, "request_id", "Field request_id is not UUID.")
		return nil
	}
	status, err := model.ParseStatus(req.Status)
	if err != nil {
		serdser.AddErr(&errs, "status", err.Error())
		return nil
	}
	if req.ExtraVolunteerRequired {
		serdser.Assert(
			&errs, req.ExtraVolunteerReason != "",
			"extra_volunteer_reason",
			"A reason is required when requesting an extra volunteer.",
		)
	}
	if errs != nil {
		return nil
	}
	return &updateStatusReq{
		RequestID: id,
		In: requestuc.UpdateStatusInput{
			Status:                 status,
			DeliveryPhoto:          req.DeliveryPhoto,
			ExtraVolunteerRequired: req.ExtraVolunteerRequired,
			ExtraVolunteerReason:   req.ExtraVolunteerReason,
		},
	}
}

type rawConfirmReq struct {
	RequestID string `json:"request_id" binding:"required,uuid4"`
	Rating    *int   `json:"rating" binding:"omitempty,min=1,max=5"`
	Feedback  string `json:"feedback" binding:"omitempty"`
}

type confirmReq struct {
	RequestID uuid.UUID
	In        requestuc.ConfirmInput
}

func (rs *resource) DserConfirmReq(c *gin.Context) *confirmReq {
	req := &rawConfirmReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	id, err := uuid.Parse(req.RequestID)
	if err != nil {
		var errs map[string][]string
		serdser.AddErr(&errs, "request_id", "Field request_id is not UUID.")
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return &confirmReq{
		RequestID: id,
		In: requestuc.ConfirmInput{
			Rating:   req.Rating,
			Feedback: req.Feedback,
		},
	}
}
