// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package requestuc

import (
	"errors"
	"fmt"
	"time"

	"github.com/smartplate/smartplate/pkg/core/event"
	"github.com/smartplate/smartplate/pkg/core/match"
)

// Option is a functional option for the request lifecycle use case.
type Option func(uc *UseCase) error

// WithMatching option overrides the matching policy parameters which
// otherwise take the match.DefaultParams values. This option may be
// passed to the New() function.
func WithMatching(mp match.Params) Option {
	return func(uc *UseCase) error {
		if err := mp.Validate(); err != nil {
			return fmt.Errorf("matching params: %w", err)
		}
		if uc.matching != nil {
			return errors.New("matching params are already configured")
		}
		uc.matching = &mp
		return nil
	}
}

// WithNotifier option configures the transition event notifier.
// Without it, events are discarded. This option may be passed to the
// New() function.
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

// WithClock option overrides the time source of the use case, fixing
// transition timestamps in tests.
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
