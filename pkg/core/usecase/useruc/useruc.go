// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package useruc contains the participants UseCase: registration with
// role-specific defaults, credential verification with access token
// issuance, and the NGO document verification decisions. The request
// lifecycle itself lives in the requestuc package.
package useruc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/core/auth"
	"github.com/smartplate/smartplate/pkg/core/cerr"
	"github.com/smartplate/smartplate/pkg/core/email"
	"github.com/smartplate/smartplate/pkg/core/event"
	"github.com/smartplate/smartplate/pkg/core/hash"
	"github.com/smartplate/smartplate/pkg/core/log"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/repo"
)

// UseCase represents the participants use case. It holds a database
// connection pool, the participants repository instance, the password
// hasher, the access token issuer, and the best-effort mail and event
// collaborators.
type UseCase struct {
	pool           repo.Pool
	participantsrp repo.Participants
	hasher         hash.Hasher
	issuer         auth.Issuer

	mailer   email.Dispatcher
	notifier event.Notifier
	now      func() time.Time
}

// New instantiates a participants use case.
func New(
	p repo.Pool, ps repo.Participants,
	h hash.Hasher, i auth.Issuer, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, participantsrp: ps, hasher: h, issuer: i}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.mailer == nil {
		uc.mailer = email.Discard{}
	}
	if uc.notifier == nil {
		uc.notifier = event.Discard{}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc, nil
}

// RegisterInput carries the attributes of a new participant.
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Role       model.Role
	Phone      string
	Location   string
	Coordinate *model.Coordinate

	// Role-specific attributes; ignored for the other roles.
	TransportMode model.TransportMode
	Organization  string
	DonorType     string
}

// Register use case creates a participant with the defaults of its
// role: volunteers and NGOs start at the neutral reliability score
// with zeroed counters, and NGOs additionally await document
// verification. A welcome mail is sent best-effort and an access
// token is returned together with the stored participant.
func (us *UseCase) Register(
	ctx context.Context, in RegisterInput,
) (p *model.Participant, token string, err error) {
	pwHash, err := us.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}
	p = &model.Participant{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: pwHash,
		Name:         in.Name,
		Role:         in.Role,
		Phone:        in.Phone,
		Location:     in.Location,
		Coordinate:   in.Coordinate,
		CreatedAt:    us.now(),
	}
	switch in.Role {
	case model.RoleVolunteer:
		p.TransportMode = in.TransportMode
		p.ReliabilityScore = model.DefaultReliability
	case model.RoleNGO:
		p.Organization = in.Organization
		p.VerificationStatus = model.VerificationPending
		p.ReliabilityScore = model.DefaultReliability
	case model.RoleDonor:
		p.DonorType = in.DonorType
	}
	err = us.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		pq := us.participantsrp.Conn(c)
		if prev, err := pq.ByEmail(ctx, in.Email); err == nil && prev != nil {
			return cerr.BadRequest(fmt.Errorf(
				"email %q is already registered", in.Email,
			))
		}
		return pq.Create(ctx, p)
	})
	if err != nil {
		return nil, "", err
	}
	if err := us.mailer.SendWelcome(ctx, p); err != nil {
		log.Warn(ctx, "welcome mail failed",
			log.ID("user_id", p.ID), log.Err("error", err))
	}
	token, err = us.issuer.Issue(auth.Claims{Subject: p.ID, Role: p.Role})
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}
	log.Info(ctx, "participant registered",
		log.ID("user_id", p.ID), log.Stringer("role", p.Role))
	return p, token, nil
}

// Login use case verifies the given credentials and issues an access
// token. Both a missing account and a wrong password are reported as
// the same authentication failure.
func (us *UseCase) Login(
	ctx context.Context, emailAddr, password string,
) (p *model.Participant, token string, err error) {
	err = us.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		p, err = us.participantsrp.Conn(c).ByEmail(ctx, emailAddr)
		return err
	})
	if err != nil {
		return nil, "", cerr.Authentication(
			fmt.Errorf("invalid email or password"),
		)
	}
	ok, err := us.hasher.Verify(password, p.PasswordHash)
	if err != nil || !ok {
		return nil, "", cerr.Authentication(
			fmt.Errorf("invalid email or password"),
		)
	}
	token, err = us.issuer.Issue(auth.Claims{Subject: p.ID, Role: p.Role})
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}
	return p, token, nil
}

// Get loads one participant by id.
func (us *UseCase) Get(
	ctx context.Context, id uuid.UUID,
) (p *model.Participant, err error) {
	err = us.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		p, err = us.participantsrp.Conn(c).ByID(ctx, id)
		return err
	})
	if err != nil {
		p = nil
	}
	return
}

// PendingVerifications lists the NGOs awaiting a verification
// decision, for the admin review queue.
func (us *UseCase) PendingVerifications(
	ctx context.Context, admin uuid.UUID,
) (ngos []*model.Participant, err error) {
	err = us.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		pq := us.participantsrp.Conn(c)
		if err := us.requireAdmin(ctx, pq, admin); err != nil {
			return err
		}
		ngos, err = pq.PendingNGOs(ctx)
		return err
	})
	if err != nil {
		ngos = nil
	}
	return
}

// AllUsers lists every registered participant in registration order,
// for the admin directory view.
func (us *UseCase) AllUsers(
	ctx context.Context, admin uuid.UUID,
) (ps []*model.Participant, err error) {
	err = us.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		pq := us.participantsrp.Conn(c)
		if err := us.requireAdmin(ctx, pq, admin); err != nil {
			return err
		}
		ps, err = pq.All(ctx)
		return err
	})
	if err != nil {
		ps = nil
	}
	return
}

// VerifyNGO use case records an admin's verification decision over an
// NGO. An approval triggers a best-effort notification mail; both
// outcomes emit a verification_updated event.
func (us *UseCase) VerifyNGO(
	ctx context.Context, admin, ngo uuid.UUID,
	status model.VerificationStatus, notes string,
) (p *model.Participant, err error) {
	err = us.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		pq := us.participantsrp.Conn(c)
		if err := us.requireAdmin(ctx, pq, admin); err != nil {
			return err
		}
		p, err = pq.SetVerification(ctx, ngo, status, notes, admin, us.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	if status == model.VerificationVerified {
		if err := us.mailer.SendVerificationApproved(ctx, p); err != nil {
			log.Warn(ctx, "verification mail failed",
				log.ID("user_id", p.ID), log.Err("error", err))
		}
	}
	us.notifier.Notify(ctx, event.Event{
		Name: event.VerificationUpdated,
		Payload: map[string]string{
			"user_id": p.ID.String(),
			"status":  string(status),
		},
	})
	return p, nil
}

func (us *UseCase) requireAdmin(
	ctx context.Context, pq repo.ParticipantsConnQueryer, id uuid.UUID,
) error {
	actor, err := pq.ByID(ctx, id)
	if err != nil {
		return fmt.Errorf("loading admin: %w", err)
	}
	if actor.Role != model.RoleAdmin {
		return cerr.Authorization(fmt.Errorf(
			"role %q lacks admin access", actor.Role,
		))
	}
	return nil
}
