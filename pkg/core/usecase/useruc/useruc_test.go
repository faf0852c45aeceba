// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package useruc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/internal/test/memrepo"
	"github.com/smartplate/smartplate/pkg/core/auth"
	"github.com/smartplate/smartplate/pkg/core/cerr"
	"github.com/smartplate/smartplate/pkg/core/event"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/usecase/useruc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

// plainHasher is a transparent stand-in for the bcrypt adapter.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Verify(password, encoded string) (bool, error) {
	return "hashed:"+password == encoded, nil
}

// staticIssuer derives the token from the subject, so tests can check
// that the right participant was authenticated.
type staticIssuer struct{}

func (staticIssuer) Issue(c auth.Claims) (string, error) {
	return "token-" + c.Subject.String(), nil
}

func (staticIssuer) Verify(string) (*auth.Claims, error) {
	return nil, errors.New("not used by these tests")
}

// mailerSpy records which mails were dispatched and to whom.
type mailerSpy struct {
	welcomed []string
	approved []string
}

func (m *mailerSpy) SendWelcome(
	_ context.Context, p *model.Participant,
) error {
	m.welcomed = append(m.welcomed, p.Email)
	return nil
}

func (m *mailerSpy) SendVerificationApproved(
	_ context.Context, p *model.Participant,
) error {
	m.approved = append(m.approved, p.Email)
	return nil
}

type notifierSpy struct {
	events []event.Event
}

func (n *notifierSpy) Notify(_ context.Context, e event.Event) {
	n.events = append(n.events, e)
}

type fixture struct {
	store  *memrepo.Store
	mailer *mailerSpy
	spy    *notifierSpy
	users  *useruc.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memrepo.NewStore()
	mailer := &mailerSpy{}
	spy := &notifierSpy{}
	users, err := useruc.New(
		store.Pool(), store.Participants(), plainHasher{}, staticIssuer{},
		useruc.WithMailer(mailer),
		useruc.WithNotifier(spy),
		useruc.WithClock(func() time.Time { return testNow }),
	)
	require.NoError(t, err)
	return &fixture{store: store, mailer: mailer, spy: spy, users: users}
}

func assertHTTPStatus(t *testing.T, err error, code int) {
	t.Helper()
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, code, ce.HTTPStatusCode)
}

func TestRegisterVolunteer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, token, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:         "rider@volunteer.example",
		Password:      "s3cret!",
		Name:          "Swift Rider",
		Role:          model.RoleVolunteer,
		Location:      "Downtown",
		TransportMode: model.TransportBicycle,
	})
	require.NoError(t, err)
	assert.Equal(t, "token-"+p.ID.String(), token)
	assert.Equal(t, model.TransportBicycle, p.TransportMode)
	assert.Equal(t, model.DefaultReliability, p.ReliabilityScore)
	assert.Zero(t, p.CompletedTasks)
	assert.Equal(t, testNow, p.CreatedAt)
	assert.Equal(t, "hashed:s3cret!", p.PasswordHash)
	assert.Equal(
		t, []string{"rider@volunteer.example"}, f.mailer.welcomed,
		"a welcome mail goes out on registration",
	)
}

func TestRegisterNGO(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:        "contact@ngo.example",
		Password:     "s3cret!",
		Name:         "Helping Hands",
		Role:         model.RoleNGO,
		Organization: "Helping Hands Foundation",
	})
	require.NoError(t, err)
	assert.Equal(
		t, model.VerificationPending, p.VerificationStatus,
		"a new NGO awaits document verification",
	)
	assert.Equal(t, model.DefaultReliability, p.ReliabilityScore)
	assert.False(t, p.Verified())
}

func TestRegisterDonor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:     "kitchen@donor.example",
		Password:  "s3cret!",
		Name:      "City Caterers",
		Role:      model.RoleDonor,
		DonorType: "restaurant",
	})
	require.NoError(t, err)
	assert.Equal(t, "restaurant", p.DonorType)
	assert.Zero(
		t, p.ReliabilityScore,
		"donors do not participate in reliability tracking",
	)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := useruc.RegisterInput{
		Email:    "contact@ngo.example",
		Password: "s3cret!",
		Name:     "Helping Hands",
		Role:     model.RoleNGO,
	}
	_, _, err := f.users.Register(ctx, in)
	require.NoError(t, err)

	in.Name = "Copycat"
	_, _, err = f.users.Register(ctx, in)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	registered, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:    "kitchen@donor.example",
		Password: "s3cret!",
		Name:     "City Caterers",
		Role:     model.RoleDonor,
	})
	require.NoError(t, err)

	p, token, err := f.users.Login(ctx, "kitchen@donor.example", "s3cret!")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, p.ID)
	assert.Equal(t, "token-"+p.ID.String(), token)

	_, _, err = f.users.Login(ctx, "kitchen@donor.example", "wrong")
	assertHTTPStatus(t, err, http.StatusUnauthorized)

	// a missing account is indistinguishable from a wrong password
	_, _, err = f.users.Login(ctx, "nobody@donor.example", "s3cret!")
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestVerifyNGO(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ngo, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:    "contact@ngo.example",
		Password: "s3cret!",
		Name:     "Helping Hands",
		Role:     model.RoleNGO,
	})
	require.NoError(t, err)
	admin, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:    "root@admin.example",
		Password: "s3cret!",
		Name:     "Coordinator",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	pending, err := f.users.PendingVerifications(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ngo.ID, pending[0].ID)

	p, err := f.users.VerifyNGO(
		ctx, admin.ID, ngo.ID,
		model.VerificationVerified, "documents in order",
	)
	require.NoError(t, err)
	assert.True(t, p.Verified())
	assert.Equal(t, "documents in order", p.VerificationNotes)
	assert.Equal(
		t, []string{"contact@ngo.example"}, f.mailer.approved,
		"an approval triggers a notification mail",
	)
	require.NotEmpty(t, f.spy.events)
	assert.Equal(
		t, event.VerificationUpdated,
		f.spy.events[len(f.spy.events)-1].Name,
	)

	pending, err = f.users.PendingVerifications(ctx, admin.ID)
	require.NoError(t, err)
	assert.Empty(t, pending, "a decided NGO leaves the review queue")
}

func TestVerifyNGORejection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ngo, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:    "contact@ngo.example",
		Password: "s3cret!",
		Name:     "Helping Hands",
		Role:     model.RoleNGO,
	})
	require.NoError(t, err)
	admin, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:    "root@admin.example",
		Password: "s3cret!",
		Name:     "Coordinator",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	p, err := f.users.VerifyNGO(
		ctx, admin.ID, ngo.ID,
		model.VerificationRejected, "expired registration papers",
	)
	require.NoError(t, err)
	assert.Equal(t, model.VerificationRejected, p.VerificationStatus)
	assert.False(t, p.Verified())
	assert.Empty(t, f.mailer.approved, "no approval mail on rejection")
}

func TestVerifyNGOAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ngo, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:    "contact@ngo.example",
		Password: "s3cret!",
		Name:     "Helping Hands",
		Role:     model.RoleNGO,
	})
	require.NoError(t, err)
	donor, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:    "kitchen@donor.example",
		Password: "s3cret!",
		Name:     "City Caterers",
		Role:     model.RoleDonor,
	})
	require.NoError(t, err)

	_, err = f.users.VerifyNGO(
		ctx, donor.ID, ngo.ID, model.VerificationVerified, "",
	)
	assertHTTPStatus(t, err, http.StatusForbidden)

	_, err = f.users.PendingVerifications(ctx, donor.ID)
	assertHTTPStatus(t, err, http.StatusForbidden)

	admin, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:    "root@admin.example",
		Password: "s3cret!",
		Name:     "Coordinator",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)
	_, err = f.users.VerifyNGO(
		ctx, admin.ID, donor.ID, model.VerificationVerified, "",
	)
	assertHTTPStatus(t, err, http.StatusNotFound)

	_, err = f.users.VerifyNGO(
		ctx, admin.ID, uuid.New(), model.VerificationVerified, "",
	)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestAllUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ngo, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:    "contact@ngo.example",
		Password: "s3cret!",
		Name:     "Helping Hands",
		Role:     model.RoleNGO,
	})
	require.NoError(t, err)
	donor, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:    "kitchen@donor.example",
		Password: "s3cret!",
		Name:     "City Caterers",
		Role:     model.RoleDonor,
	})
	require.NoError(t, err)
	admin, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:    "root@admin.example",
		Password: "s3cret!",
		Name:     "Coordinator",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	ps, err := f.users.AllUsers(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, ps, 3)
	assert.Equal(
		t, []uuid.UUID{ngo.ID, donor.ID, admin.ID},
		[]uuid.UUID{ps[0].ID, ps[1].ID, ps[2].ID},
		"the directory lists participants in registration order",
	)

	_, err = f.users.AllUsers(ctx, donor.ID)
	assertHTTPStatus(t, err, http.StatusForbidden)

	_, err = f.users.AllUsers(ctx, uuid.New())
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	registered, _, err := f.users.Register(ctx, useruc.RegisterInput{
		Email:    "kitchen@donor.example",
		Password: "s3cret!",
		Name:     "City Caterers",
		Role:     model.RoleDonor,
	})
	require.NoError(t, err)

	p, err := f.users.Get(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, p.ID)

	_, err = f.users.Get(ctx, uuid.New())
	assertHTTPStatus(t, err, http.StatusNotFound)
}
