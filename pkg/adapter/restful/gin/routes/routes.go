// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/smartplate/smartplate/pkg/adapter/config"
	"github.com/smartplate/smartplate/pkg/adapter/db/postgres/participantsrp"
	"github.com/smartplate/smartplate/pkg/adapter/db/postgres/requestsrp"
	"github.com/smartplate/smartplate/pkg/adapter/hash/bcrypt"
	rgin "github.com/smartplate/smartplate/pkg/adapter/restful/gin"
	"github.com/smartplate/smartplate/pkg/adapter/restful/gin/analyticsrs"
	"github.com/smartplate/smartplate/pkg/adapter/restful/gin/eventsrs"
	"github.com/smartplate/smartplate/pkg/adapter/restful/gin/requestsrs"
	"github.com/smartplate/smartplate/pkg/adapter/restful/gin/usersrs"
	"github.com/smartplate/smartplate/pkg/core/repo"
	"github.com/smartplate/smartplate/pkg/core/usecase/analyticsuc"
	"github.com/smartplate/smartplate/pkg/core/usecase/requestuc"
	"github.com/smartplate/smartplate/pkg/core/usecase/useruc"
)

// Register instantiates relevant repositories and use cases based on
// the c configuration settings. The p connections pool is passed to
// the use case instances, so they may acquire/release connections
// and transactions on demand. These connections/transactions will be
// passed to the repositories later in order to run relevant queries on
// them and accomplish those use cases. Each use case package is named
// like requestuc and each repository package is named like requestsrp.
// Register instantiates a series of "resource" structs, from packages
// which are named like requestsrs, in order to adapt the use cases
// interfaces with the REST APIs. These resources are registered as
// request handlers using the e gin-gonic engine instance.
// Possible errors will be returned after possible wrapping.
func Register(e *gin.Engine, p repo.Pool, c *config.Config) error {
	participantsRepo := participantsrp.New()
	requestsRepo := requestsrp.New()

	issuer, err := c.Auth.NewIssuer()
	if err != nil {
		return fmt.Errorf("creating token issuer: %w", err)
	}
	eventsHub := c.Events.NewHub()

	users, err := useruc.New(
		p, participantsRepo, bcrypt.New(0), issuer,
		useruc.WithMailer(c.Mail.NewDispatcher()),
		useruc.WithNotifier(eventsHub),
	)
	if err != nil {
		return fmt.Errorf("creating participants use case: %w", err)
	}
	lifecycle, err := c.Usecases.Matching.NewUseCase(
		p, requestsRepo, participantsRepo,
		requestuc.WithNotifier(eventsHub),
	)
	if err != nil {
		return fmt.Errorf("creating lifecycle use case: %w", err)
	}

	analytics := analyticsuc.New(p, requestsRepo, participantsRepo)

	r := e.Group("/api/smartplate/v1")
	authd := r.Group("", rgin.Authenticate(issuer))
	usersrs.Register(r, authd, users)
	requestsrs.Register(authd, lifecycle)
	analyticsrs.Register(authd, analytics)
	eventsrs.Register(r, eventsHub)
	return nil
}
