// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package useruc

import (
	"errors"
	"time"

	"github.com/smartplate/smartplate/pkg/core/email"
	"github.com/smartplate/smartplate/pkg/core/event"
)

// Option is a functional option for the participants use case.
type Option func(uc *UseCase) error

// WithMailer option configures the outbound mail dispatcher. Without
// it, mails are dropped silently.
func WithMailer(m email.Dispatcher) Option {
	return func(uc *UseCase) error {
		if m == nil {
			return errors.New("mailer is nil")
		}
		if uc.mailer != nil {
			return errors.New("mailer is already configured")
		}
		uc.mailer = m
		return nil
	}
}

// WithNotifier option configures the verification event notifier.
func WithNotifier(n event.Notifier) Option {
	return func(uc *UseCase) error {
		if n == nil {
			return errors.New("notifier is nil")
		}
		if uc.notifier != nil {
			return errors.New("notifier is already configured")
		}
		uc.notifier = n
		return nil
	}
}

// WithClock option overrides the time source of the use case.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}
