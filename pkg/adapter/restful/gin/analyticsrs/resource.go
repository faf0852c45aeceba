// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package analyticsrs realizes the analytics resource, exposing the
// platform dashboard and trends read paths of the analytics use case.
package analyticsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartplate/smartplate/pkg/adapter/restful/gin/serdser"
	"github.com/smartplate/smartplate/pkg/core/usecase/analyticsuc"
)

type resource struct {
	analytics *analyticsuc.UseCase
}

// Register instantiates a resource adapting the analytics use case
// instance with the relevant REST APIs including:
//  1. GET request to /api/smartplate/v1/analytics/dashboard
//     in order to load the platform-wide statistics snapshot.
//  2. GET request to /api/smartplate/v1/analytics/trends
//     in order to list the daily completion trends.
func Register(authd *gin.RouterGroup, analytics *analyticsuc.UseCase) {
	rs := &resource{analytics: analytics}
	authd.GET("analytics/dashboard", rs.Dashboard)
	authd.GET("analytics/trends", rs.Trends)
}

func (rs *resource) Dashboard(c *gin.Context) {
	stats, err := rs.analytics.Dashboard(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (rs *resource) Trends(c *gin.Context) {
	trends, err := rs.analytics.Trends(c)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trends": trends})
}
