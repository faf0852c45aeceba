// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package requestuc_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/internal/test/memrepo"
	"github.com/smartplate/smartplate/pkg/core/cerr"
	"github.com/smartplate/smartplate/pkg/core/event"
	"github.com/smartplate/smartplate/pkg/core/match"
	"github.com/smartplate/smartplate/pkg/core/model"
	"github.com/smartplate/smartplate/pkg/core/usecase/requestuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

// notifierSpy records the emitted events in order.
type notifierSpy struct {
	events []event.Event
}

func (n *notifierSpy) Notify(_ context.Context, e event.Event) {
	n.events = append(n.events, e)
}

func (n *notifierSpy) lastName() string {
	if len(n.events) == 0 {
		return ""
	}
	return n.events[len(n.events)-1].Name
}

type fixture struct {
	store     *memrepo.Store
	spy       *notifierSpy
	lifecycle *requestuc.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memrepo.NewStore()
	spy := &notifierSpy{}
	lifecycle, err := requestuc.New(
		store.Pool(), store.Requests(), store.Participants(),
		requestuc.WithNotifier(spy),
		requestuc.WithClock(func() time.Time { return testNow }),
	)
	require.NoError(t, err)
	return &fixture{store: store, spy: spy, lifecycle: lifecycle}
}

func (f *fixture) seedNGO(verified bool) *model.Participant {
	status := model.VerificationPending
	if verified {
		status = model.VerificationVerified
	}
	ngo := &model.Participant{
		ID:                 uuid.New(),
		Email:              uuid.NewString() + "@ngo.example",
		Name:               "Helping Hands",
		Role:               model.RoleNGO,
		Organization:       "Helping Hands Foundation",
		VerificationStatus: status,
		ReliabilityScore:   model.DefaultReliability,
	}
	f.store.AddParticipant(ngo)
	return ngo
}

func (f *fixture) seedDonor() *model.Participant {
	donor := &model.Participant{
		ID:    uuid.New(),
		Email: uuid.NewString() + "@donor.example",
		Name:  "City Caterers",
		Role:  model.RoleDonor,
	}
	f.store.AddParticipant(donor)
	return donor
}

func (f *fixture) seedVolunteer(
	mode model.TransportMode, rel float64, coord *model.Coordinate,
) *model.Participant {
	vol := &model.Participant{
		ID:               uuid.New(),
		Email:            uuid.NewString() + "@volunteer.example",
		Name:             "Volunteer " + string(mode),
		Role:             model.RoleVolunteer,
		TransportMode:    mode,
		ReliabilityScore: rel,
		Coordinate:       coord,
	}
	f.store.AddParticipant(vol)
	return vol
}

func createInput(quantity int) requestuc.CreateInput {
	return requestuc.CreateInput{
		FoodType:         "cooked meals",
		FoodCategory:     "veg",
		Quantity:         quantity,
		QuantityUnit:     "meals",
		RequiredDate:     "2026-09-01",
		RequiredTime:     "18:00",
		PickupLocation:   "Community Kitchen, Main St",
		PickupCoordinate: &model.Coordinate{Lat: 0, Lon: 0},
		PeopleCount:      40,
	}
}

func assertHTTPStatus(t *testing.T, err error, code int) {
	t.Helper()
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, code, ce.HTTPStatusCode)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ngo := f.seedNGO(true)

	req, err := f.lifecycle.Create(ctx, ngo.ID, createInput(30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, req.Status)
	assert.Equal(t, ngo.ID, req.RequesterID)
	assert.Equal(t, ngo.Name, req.RequesterName)
	assert.Equal(t, ngo.Organization, req.RequesterOrg)
	assert.Equal(t, testNow, req.CreatedAt)
	assert.Greater(t, req.UrgencyScore, 0.0)
	assert.LessOrEqual(t, req.UrgencyScore, 10.0)

	assert.Equal(
		t, 1, f.store.Participant(ngo.ID).TotalRequests,
		"the requester's total counter grows at creation time",
	)
	assert.Equal(t, event.NewRequest, f.spy.lastName())
}

func TestCreateAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	donor := f.seedDonor()
	_, err := f.lifecycle.Create(ctx, donor.ID, createInput(30))
	assertHTTPStatus(t, err, http.StatusForbidden)

	pendingNGO := f.seedNGO(false)
	_, err = f.lifecycle.Create(ctx, pendingNGO.ID, createInput(30))
	assertHTTPStatus(t, err, http.StatusForbidden)

	_, err = f.lifecycle.Create(ctx, uuid.New(), createInput(30))
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestAcceptAssignsBestVolunteer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ngo := f.seedNGO(true)
	donor := f.seedDonor()
	f.seedVolunteer(
		model.TransportOnFoot, 5, &model.Coordinate{Lat: 0, Lon: 0},
	)
	van := f.seedVolunteer(
		model.TransportVan, 5, &model.Coordinate{Lat: 0, Lon: 0.045},
	)

	req, err := f.lifecycle.Create(ctx, ngo.ID, createInput(30))
	require.NoError(t, err)

	accepted, err := f.lifecycle.Accept(
		ctx, donor.ID, req.ID, requestuc.AcceptInput{
			AvailabilityTime: "today 17:00",
			FoodCondition:    "freshly cooked",
		},
	)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAssigned, accepted.Status)
	require.NotNil(t, accepted.DonorID)
	assert.Equal(t, donor.ID, *accepted.DonorID)
	require.NotNil(t, accepted.VolunteerID)
	assert.Equal(
		t, van.ID, *accepted.VolunteerID,
		"the van volunteer scores best for this job",
	)
	assert.Nil(t, accepted.CoVolunteerID, "no escalation for a light job")
	require.NotNil(t, accepted.AcceptedAt)
	assert.Equal(t, testNow, *accepted.AcceptedAt)
	require.NotNil(t, accepted.AssignedAt)
	assert.Equal(t, testNow, *accepted.AssignedAt)
	assert.Equal(t, 1, f.store.Participant(donor.ID).TotalDonations)
	assert.Equal(t, event.RequestStatusChanged, f.spy.lastName())

	// the guard window was already consumed by the first acceptance
	otherDonor := f.seedDonor()
	_, err = f.lifecycle.Accept(
		ctx, otherDonor.ID, req.ID, requestuc.AcceptInput{},
	)
	assertHTTPStatus(t, err, http.StatusConflict)
}

func TestAcceptAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ngo := f.seedNGO(true)
	vol := f.seedVolunteer(model.TransportCar, 5, nil)

	req, err := f.lifecycle.Create(ctx, ngo.ID, createInput(30))
	require.NoError(t, err)

	_, err = f.lifecycle.Accept(ctx, vol.ID, req.ID, requestuc.AcceptInput{})
	assertHTTPStatus(t, err, http.StatusForbidden)

	donor := f.seedDonor()
	_, err = f.lifecycle.Accept(ctx, donor.ID, uuid.New(), requestuc.AcceptInput{})
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestAcceptWithEmptyVolunteerPool(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ngo := f.seedNGO(true)
	donor := f.seedDonor()

	req, err := f.lifecycle.Create(ctx, ngo.ID, createInput(30))
	require.NoError(t, err)

	accepted, err := f.lifecycle.Accept(
		ctx, donor.ID, req.ID, requestuc.AcceptInput{},
	)
	require.NoError(t, err)
	assert.Equal(
		t, model.StatusAcceptedByDonor, accepted.Status,
		"no volunteer means the assignment is postponed, not failed",
	)
	assert.Nil(t, accepted.VolunteerID)
}

func TestAcceptEscalatesHeavyLoad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ngo := f.seedNGO(true)
	donor := f.seedDonor()
	van := f.seedVolunteer(
		model.TransportVan, 5, &model.Coordinate{Lat: 0, Lon: 0},
	)
	bicycle := f.seedVolunteer(
		model.TransportBicycle, 7, &model.Coordinate{Lat: 0, Lon: 0.09},
	)

	// 220 units push even the van's capacity below the threshold
	req, err := f.lifecycle.Create(ctx, ngo.ID, createInput(220))
	require.NoError(t, err)

	accepted, err := f.lifecycle.Accept(
		ctx, donor.ID, req.ID, requestuc.AcceptInput{},
	)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAssigned, accepted.Status)
	require.NotNil(t, accepted.VolunteerID)
	assert.Equal(t, van.ID, *accepted.VolunteerID)
	require.NotNil(t, accepted.CoVolunteerID)
	assert.Equal(t, bicycle.ID, *accepted.CoVolunteerID)
	assert.Equal(t, model.ReasonHeavyLoad, accepted.EscalationReason)
	assert.True(t, accepted.AutoEscalated)
}

func TestAcceptWithCustomMatchingParams(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	strict, err := requestuc.New(
		f.store.Pool(), f.store.Requests(), f.store.Participants(),
		requestuc.WithMatching(match.Params{
			NeutralDistanceKm:   match.DefaultNeutralDistanceKm,
			EscalationThreshold: 10,
		}),
	)
	require.NoError(t, err)

	ngo := f.seedNGO(true)
	donor := f.seedDonor()
	van := f.seedVolunteer(
		model.TransportVan, 5, &model.Coordinate{Lat: 0, Lon: 0},
	)
	helper := f.seedVolunteer(model.TransportBicycle, 7, nil)

	// 30 units never escalate under the default threshold; see
	// TestAcceptAssignsBestVolunteer
	req, err := strict.Create(ctx, ngo.ID, createInput(30))
	require.NoError(t, err)
	accepted, err := strict.Accept(
		ctx, donor.ID, req.ID, requestuc.AcceptInput{},
	)
	require.NoError(t, err)
	require.NotNil(t, accepted.VolunteerID)
	assert.Equal(t, van.ID, *accepted.VolunteerID)
	require.NotNil(
		t, accepted.CoVolunteerID,
		"a raised threshold escalates even a light job",
	)
	assert.Equal(t, helper.ID, *accepted.CoVolunteerID)
	assert.Equal(t, model.ReasonCapacityConstraint, accepted.EscalationReason)
}

func TestMatchingOptionGuards(t *testing.T) {
	f := newFixture(t)
	_, err := requestuc.New(
		f.store.Pool(), f.store.Requests(), f.store.Participants(),
		requestuc.WithMatching(match.Params{NeutralDistanceKm: -1}),
	)
	assert.Error(t, err, "invalid params must be rejected")

	_, err = requestuc.New(
		f.store.Pool(), f.store.Requests(), f.store.Participants(),
		requestuc.WithMatching(match.DefaultParams()),
		requestuc.WithMatching(match.DefaultParams()),
	)
	assert.Error(t, err, "a second configuration attempt must be rejected")
}

// acceptAssigned drives a fresh request up to assigned_to_volunteer.
func (f *fixture) acceptAssigned(
	t *testing.T, quantity int,
) (*model.Request, *model.Participant, *model.Participant) {
	t.Helper()
	ctx := context.Background()
	ngo := f.seedNGO(true)
	donor := f.seedDonor()
	vol := f.seedVolunteer(
		model.TransportVan, 5, &model.Coordinate{Lat: 0, Lon: 0},
	)
	req, err := f.lifecycle.Create(ctx, ngo.ID, createInput(quantity))
	require.NoError(t, err)
	req, err = f.lifecycle.Accept(ctx, donor.ID, req.ID, requestuc.AcceptInput{})
	require.NoError(t, err)
	require.Equal(t, model.StatusAssigned, req.Status)
	return req, ngo, vol
}

func TestUpdateStatusPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req, _, vol := f.acceptAssigned(t, 30)

	req, err := f.lifecycle.UpdateStatus(
		ctx, vol.ID, req.ID,
		requestuc.UpdateStatusInput{Status: model.StatusPickedUp},
	)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPickedUp, req.Status)
	require.NotNil(t, req.PickedUpAt)
	assert.Equal(t, testNow, *req.PickedUpAt)

	req, err = f.lifecycle.UpdateStatus(
		ctx, vol.ID, req.ID,
		requestuc.UpdateStatusInput{Status: model.StatusInTransit},
	)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInTransit, req.Status)

	req, err = f.lifecycle.UpdateStatus(
		ctx, vol.ID, req.ID, requestuc.UpdateStatusInput{
			Status:        model.StatusDelivered,
			DeliveryPhoto: "photos/drop-off.jpg",
		},
	)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDelivered, req.Status)
	assert.Equal(t, "photos/drop-off.jpg", req.DeliveryPhoto)
	require.NotNil(t, req.DeliveredAt)
	assert.Equal(t, event.RequestStatusChanged, f.spy.lastName())
}

func TestUpdateStatusGuards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req, _, vol := f.acceptAssigned(t, 30)

	// skipping picked_up is not a legal edge
	_, err := f.lifecycle.UpdateStatus(
		ctx, vol.ID, req.ID,
		requestuc.UpdateStatusInput{Status: model.StatusDelivered},
	)
	assertHTTPStatus(t, err, http.StatusConflict)

	// completion belongs to the NGO, not to a volunteer
	_, err = f.lifecycle.UpdateStatus(
		ctx, vol.ID, req.ID,
		requestuc.UpdateStatusInput{Status: model.StatusCompleted},
	)
	assertHTTPStatus(t, err, http.StatusBadRequest)

	bystander := f.seedVolunteer(model.TransportCar, 5, nil)
	_, err = f.lifecycle.UpdateStatus(
		ctx, bystander.ID, req.ID,
		requestuc.UpdateStatusInput{Status: model.StatusPickedUp},
	)
	assertHTTPStatus(t, err, http.StatusConflict)

	stored := f.store.Request(req.ID)
	assert.Equal(
		t, model.StatusAssigned, stored.Status,
		"failed guards leave the request untouched",
	)
}

func TestUpdateStatusManualEscalation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req, _, vol := f.acceptAssigned(t, 30)
	helper := f.seedVolunteer(model.TransportTwoWheeler, 8, nil)

	req, err := f.lifecycle.UpdateStatus(
		ctx, vol.ID, req.ID, requestuc.UpdateStatusInput{
			Status:                 model.StatusPickedUp,
			ExtraVolunteerRequired: true,
			ExtraVolunteerReason:   "stairs-only access at pickup",
		},
	)
	require.NoError(t, err)
	require.NotNil(t, req.CoVolunteerID)
	assert.Equal(t, helper.ID, *req.CoVolunteerID)
	assert.Equal(
		t, model.EscalationReason("stairs-only access at pickup"),
		req.EscalationReason,
	)
	assert.False(t, req.AutoEscalated, "a flagged escalation is manual")

	// the co-volunteer may now advance the delivery as well
	req, err = f.lifecycle.UpdateStatus(
		ctx, helper.ID, req.ID,
		requestuc.UpdateStatusInput{Status: model.StatusInTransit},
	)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInTransit, req.Status)
}

func TestUpdateStatusManualEscalationWithoutHelpers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req, _, vol := f.acceptAssigned(t, 30)

	req, err := f.lifecycle.UpdateStatus(
		ctx, vol.ID, req.ID, requestuc.UpdateStatusInput{
			Status:                 model.StatusPickedUp,
			ExtraVolunteerRequired: true,
			ExtraVolunteerReason:   "very heavy crates",
		},
	)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPickedUp, req.Status)
	assert.Nil(
		t, req.CoVolunteerID,
		"the flag is dropped when no other volunteer exists",
	)
}

func (f *fixture) deliver(
	t *testing.T, req *model.Request, vol *model.Participant,
) *model.Request {
	t.Helper()
	ctx := context.Background()
	for _, status := range []model.Status{
		model.StatusPickedUp, model.StatusInTransit, model.StatusDelivered,
	} {
		var err error
		req, err = f.lifecycle.UpdateStatus(
			ctx, vol.ID, req.ID,
			requestuc.UpdateStatusInput{Status: status},
		)
		require.NoError(t, err)
	}
	return req
}

func TestConfirmReceipt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req, ngo, vol := f.acceptAssigned(t, 30)
	req = f.deliver(t, req, vol)

	rating := 4
	req, err := f.lifecycle.ConfirmReceipt(
		ctx, ngo.ID, req.ID, requestuc.ConfirmInput{
			Rating:   &rating,
			Feedback: "arrived warm and on time",
		},
	)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, req.Status)
	require.NotNil(t, req.Rating)
	assert.Equal(t, 4, *req.Rating)
	require.NotNil(t, req.CompletedAt)
	assert.Equal(t, event.RequestCompleted, f.spy.lastName())

	storedVol := f.store.Participant(vol.ID)
	assert.Equal(t, 1, storedVol.CompletedTasks)
	assert.InDelta(
		t, 5.1, storedVol.ReliabilityScore, 1e-9,
		"one completed task nudges the volunteer score",
	)
	storedNGO := f.store.Participant(ngo.ID)
	assert.Equal(t, 1, storedNGO.CompletedRequests)
	assert.InDelta(
		t, 10.0, storedNGO.ReliabilityScore, 1e-9,
		"one completion out of one request is a perfect ratio",
	)

	// the delivered guard was consumed; a second confirmation loses
	_, err = f.lifecycle.ConfirmReceipt(
		ctx, ngo.ID, req.ID, requestuc.ConfirmInput{},
	)
	assertHTTPStatus(t, err, http.StatusConflict)
}

func TestConfirmReceiptGuards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req, ngo, vol := f.acceptAssigned(t, 30)

	// not delivered yet
	_, err := f.lifecycle.ConfirmReceipt(
		ctx, ngo.ID, req.ID, requestuc.ConfirmInput{},
	)
	assertHTTPStatus(t, err, http.StatusConflict)

	req = f.deliver(t, req, vol)

	otherNGO := f.seedNGO(true)
	_, err = f.lifecycle.ConfirmReceipt(
		ctx, otherNGO.ID, req.ID, requestuc.ConfirmInput{},
	)
	assertHTTPStatus(t, err, http.StatusConflict)

	donor := f.seedDonor()
	_, err = f.lifecycle.ConfirmReceipt(
		ctx, donor.ID, req.ID, requestuc.ConfirmInput{},
	)
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ngo := f.seedNGO(true)

	// a far deadline keeps the first request less urgent
	calm := createInput(30)
	calm.RequiredDate = time.Now().Add(200 * time.Hour).Format("2006-01-02")
	calmReq, err := f.lifecycle.Create(ctx, ngo.ID, calm)
	require.NoError(t, err)

	urgent := createInput(30)
	urgent.PeopleCount = 90
	urgent.RequiredDate = time.Now().Format("2006-01-02")
	urgentReq, err := f.lifecycle.Create(ctx, ngo.ID, urgent)
	require.NoError(t, err)

	pending, err := f.lifecycle.PendingRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(
		t, urgentReq.ID, pending[0].ID,
		"pending requests are listed most urgent first",
	)
	assert.Equal(t, calmReq.ID, pending[1].ID)

	own, err := f.lifecycle.RequesterRequests(ctx, ngo.ID)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	donor := f.seedDonor()
	vol := f.seedVolunteer(
		model.TransportVan, 5, &model.Coordinate{Lat: 0, Lon: 0},
	)
	_, err = f.lifecycle.Accept(
		ctx, donor.ID, urgentReq.ID, requestuc.AcceptInput{},
	)
	require.NoError(t, err)

	donations, err := f.lifecycle.DonorDonations(ctx, donor.ID)
	require.NoError(t, err)
	require.Len(t, donations, 1)
	assert.Equal(t, urgentReq.ID, donations[0].ID)

	tasks, err := f.lifecycle.VolunteerTasks(ctx, vol.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, urgentReq.ID, tasks[0].ID)

	pending, err = f.lifecycle.PendingRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1, "accepted requests leave the pending list")
	assert.Equal(t, calmReq.ID, pending[0].ID)
}
