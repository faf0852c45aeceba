// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package smtp adapts an SMTP relay to the core email.Dispatcher
// interface, sending the plain-text transactional mails of the
// platform.
package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/smartplate/smartplate/pkg/core/model"
)

// Dispatcher sends mails through an SMTP relay with a PLAIN
// authentication. It implements the core email.Dispatcher interface.
type Dispatcher struct {
	addr   string // host:port of the relay
	auth   smtp.Auth
	sender string

	// send is replaced in tests, capturing outbound mails without a
	// live relay.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New instantiates a Dispatcher relaying through host:port on behalf
// of the sender address. The username and password may be empty for
// an unauthenticated relay.
func New(host string, port int, username, password, sender string) *Dispatcher {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &Dispatcher{
		addr:   fmt.Sprintf("%s:%d", host, port),
		auth:   auth,
		sender: sender,
		send:   smtp.SendMail,
	}
}

// SendWelcome greets a newly registered participant with role-specific
// onboarding content.
func (d *Dispatcher) SendWelcome(ctx context.Context, p *model.Participant) error {
	subject := fmt.Sprintf("Welcome to SmartPlate, %s!", p.Name)
	body := fmt.Sprintf(
		"Welcome, %s!\r\n\r\n"+
			"Thank you for joining SmartPlate as a %s. Together, we are"+
			" working towards achieving SDG-2: Zero Hunger.\r\n\r\n"+
			"What's next?\r\n%s\r\n"+
			"If you have any questions, feel free to reach out to our"+
			" support team.\r\n\r\n"+
			"SmartPlate - Fighting Hunger, One Meal at a Time\r\n",
		p.Name, strings.ToUpper(p.Role.String()), onboarding(p.Role),
	)
	return d.mail(ctx, p.Email, subject, body)
}

// SendVerificationApproved informs an NGO that its documents were
// approved and it may start creating requests.
func (d *Dispatcher) SendVerificationApproved(ctx context.Context, p *model.Participant) error {
	subject := "Your SmartPlate Account Has Been Verified!"
	body := fmt.Sprintf(
		"Great news, %s!\r\n\r\n"+
			"Your %s account has been verified by our admin team. You"+
			" now have full access to SmartPlate.\r\n\r\n"+
			"Log in to your dashboard and start contributing to zero"+
			" hunger today.\r\n",
		p.Name, strings.ToUpper(p.Role.String()),
	)
	return d.mail(ctx, p.Email, subject, body)
}

func (d *Dispatcher) mail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		d.sender, to, subject, body,
	)
	if err := d.send(
		d.addr, d.auth, d.sender, []string{to}, []byte(msg),
	); err != nil {
		return fmt.Errorf("relaying mail: %w", err)
	}
	return nil
}

func onboarding(r model.Role) string {
	switch r {
	case model.RoleNGO:
		return " - Your account needs verification by our admin team\r\n" +
			" - Once verified, you can create food requests\r\n" +
			" - Track all your requests in the dashboard\r\n"
	case model.RoleDonor:
		return " - Browse food requests from verified NGOs\r\n" +
			" - Accept requests and offer your surplus food\r\n" +
			" - Make an impact in your local community\r\n"
	case model.RoleVolunteer:
		return " - Accept delivery tasks assigned to you\r\n" +
			" - Earn reliability scores with each delivery\r\n" +
			" - Help connect donors and NGOs efficiently\r\n"
	case model.RoleAdmin:
		return " - Verify NGOs awaiting review\r\n" +
			" - Oversee requests and participants\r\n"
	default:
		return " - Explore your dashboard\r\n"
	}
}
