// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package smtp

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

// capture replaces the dispatcher's send function, recording outbound
// mails instead of relaying them.
func capture(d *Dispatcher) *[]sentMail {
	var mails []sentMail
	d.send = func(
		addr string, _ smtp.Auth, from string, to []string, msg []byte,
	) error {
		mails = append(mails, sentMail{
			addr: addr, from: from, to: to, msg: string(msg),
		})
		return nil
	}
	return &mails
}

func TestSendWelcome(t *testing.T) {
	d := New("relay.example", 587, "", "", "noreply@smartplate.example")
	mails := capture(d)

	err := d.SendWelcome(context.Background(), &model.Participant{
		Email: "rider@volunteer.example",
		Name:  "Swift Rider",
		Role:  model.RoleVolunteer,
	})
	require.NoError(t, err)
	require.Len(t, *mails, 1)
	m := (*mails)[0]
	assert.Equal(t, "relay.example:587", m.addr)
	assert.Equal(t, "noreply@smartplate.example", m.from)
	assert.Equal(t, []string{"rider@volunteer.example"}, m.to)
	assert.Contains(t, m.msg, "Subject: Welcome to SmartPlate, Swift Rider!")
	assert.Contains(t, m.msg, "joining SmartPlate as a VOLUNTEER")
	assert.Contains(t, m.msg, "Accept delivery tasks assigned to you")
}

func TestSendWelcomeNGOOnboarding(t *testing.T) {
	d := New("relay.example", 587, "", "", "noreply@smartplate.example")
	mails := capture(d)

	err := d.SendWelcome(context.Background(), &model.Participant{
		Email: "contact@ngo.example",
		Name:  "Helping Hands",
		Role:  model.RoleNGO,
	})
	require.NoError(t, err)
	require.Len(t, *mails, 1)
	assert.Contains(
		t, (*mails)[0].msg,
		"Your account needs verification by our admin team",
	)
}

func TestSendVerificationApproved(t *testing.T) {
	d := New("relay.example", 587, "", "", "noreply@smartplate.example")
	mails := capture(d)

	err := d.SendVerificationApproved(
		context.Background(), &model.Participant{
			Email: "contact@ngo.example",
			Name:  "Helping Hands",
			Role:  model.RoleNGO,
		},
	)
	require.NoError(t, err)
	require.Len(t, *mails, 1)
	m := (*mails)[0]
	assert.Contains(
		t, m.msg, "Subject: Your SmartPlate Account Has Been Verified!",
	)
	assert.Contains(t, m.msg, "Your NGO account has been verified")
}

func TestCancelledContext(t *testing.T) {
	d := New("relay.example", 587, "", "", "noreply@smartplate.example")
	mails := capture(d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.SendWelcome(ctx, &model.Participant{
		Email: "rider@volunteer.example",
		Name:  "Swift Rider",
		Role:  model.RoleVolunteer,
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *mails)
}
