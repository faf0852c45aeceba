// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package email declares the outbound mail collaborator. Dispatch is
// best-effort: use cases log failures and never propagate them to the
// acting participant.
package email

import (
	"context"

	"github.com/smartplate/smartplate/pkg/core/model"
)

// Dispatcher sends the transactional mails of the platform.
type Dispatcher interface {
	// SendWelcome greets a newly registered participant with
	// role-specific onboarding content.
	SendWelcome(ctx context.Context, p *model.Participant) error

	// SendVerificationApproved informs an NGO that its documents were
	// approved and it may start creating requests.
	SendVerificationApproved(ctx context.Context, p *model.Participant) error
}

// Discard is a Dispatcher which silently drops every mail, standing
// in where no SMTP relay is configured.
type Discard struct{}

// SendWelcome implements the Dispatcher interface as a no-op.
func (Discard) SendWelcome(context.Context, *model.Participant) error {
	return nil
}

// SendVerificationApproved implements the Dispatcher interface as a
// no-op.
func (Discard) SendVerificationApproved(context.Context, *model.Participant) error {
	return nil
}
