// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package requestsrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/adapter/db/postgres"
	"github.com/smartplate/smartplate/pkg/core/cerr"
	"github.com/smartplate/smartplate/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gRequest struct {
	RID                  uuid.UUID `gorm:"primaryKey;type:uuid;column:request_id"`
	NgoID                uuid.UUID `gorm:"type:uuid"`
	NgoName              string
	NgoOrganization      string
	FoodType             string
	FoodCategory         string
	Quantity             int
	QuantityUnit         string
	RequiredDate         string
	RequiredTime         string
	PickupLocation       string
	PickupLat            *float64
	PickupLon            *float64
	PeopleCount          int
	SpecialInstructions  string
	UrgencyScore         float64
	Status               string
	DonorID              *uuid.UUID `gorm:"type:uuid"`
	DonorName            string
	AvailabilityTime     string
	FoodCondition        string
	VolunteerID          *uuid.UUID `gorm:"type:uuid"`
	VolunteerName        string
	CoVolunteerID        *uuid.UUID `gorm:"type:uuid"`
	CoVolunteerName      string
	ExtraVolunteerReason string
	AutoTriggered        bool
	DeliveryPhoto        string
	NgoRating            *int
	NgoFeedback          string
	CreatedAt            time.Time
	AcceptedAt           *time.Time
	AssignedAt           *time.Time
	PickedUpAt           *time.Time
	InTransitAt          *time.Time
	DeliveredAt          *time.Time
	CompletedAt          *time.Time
}

func (gr *gRequest) TableName() string {
	return "food_requests"
}

func (gr *gRequest) Model() *model.Request {
	st, _ := model.ParseStatus(gr.Status)
	var pc *model.Coordinate
	if gr.PickupLat != nil && gr.PickupLon != nil {
		pc = &model.Coordinate{Lat: *gr.PickupLat, Lon: *gr.PickupLon}
	}
	return &model.Request{
		ID:                  gr.RID,
		RequesterID:         gr.NgoID,
		RequesterName:       gr.NgoName,
		RequesterOrg:        gr.NgoOrganization,
		FoodType:            gr.FoodType,
		FoodCategory:        gr.FoodCategory,
		Quantity:            gr.Quantity,
		QuantityUnit:        gr.QuantityUnit,
		RequiredDate:        gr.RequiredDate,
		RequiredTime:        gr.RequiredTime,
		PickupLocation:      gr.PickupLocation,
		PickupCoordinate:    pc,
		PeopleCount:         gr.PeopleCount,
		SpecialInstructions: gr.SpecialInstructions,
		UrgencyScore:        gr.UrgencyScore,
		Status:              st,
		DonorID:             gr.DonorID,
		DonorName:           gr.DonorName,
		AvailabilityTime:    gr.AvailabilityTime,
		FoodCondition:       gr.FoodCondition,
		VolunteerID:         gr.VolunteerID,
		VolunteerName:       gr.VolunteerName,
		CoVolunteerID:       gr.CoVolunteerID,
		CoVolunteerName:     gr.CoVolunteerName,
		EscalationReason:    model.EscalationReason(gr.ExtraVolunteerReason),
		AutoEscalated:       gr.AutoTriggered,
		DeliveryPhoto:       gr.DeliveryPhoto,
		Rating:              gr.NgoRating,
		Feedback:            gr.NgoFeedback,
		CreatedAt:           gr.CreatedAt,
		AcceptedAt:          gr.AcceptedAt,
		AssignedAt:          gr.AssignedAt,
		PickedUpAt:          gr.PickedUpAt,
		InTransitAt:         gr.InTransitAt,
		DeliveredAt:         gr.DeliveredAt,
		CompletedAt:         gr.CompletedAt,
	}
}

func fromModel(req *model.Request) *gRequest {
	gr := &gRequest{
		RID:                  req.ID,
		NgoID:                req.RequesterID,
		NgoName:              req.RequesterName,
		NgoOrganization:      req.RequesterOrg,
		FoodType:             req.FoodType,
		FoodCategory:         req.FoodCategory,
		Quantity:             req.Quantity,
		QuantityUnit:         req.QuantityUnit,
		RequiredDate:         req.RequiredDate,
		RequiredTime:         req.RequiredTime,
		PickupLocation:       req.PickupLocation,
		PeopleCount:          req.PeopleCount,
		SpecialInstructions:  req.SpecialInstructions,
		UrgencyScore:         req.UrgencyScore,
		Status:               req.Status.String(),
		DonorID:              req.DonorID,
		DonorName:            req.DonorName,
		AvailabilityTime:     req.AvailabilityTime,
		FoodCondition:        req.FoodCondition,
		VolunteerID:          req.VolunteerID,
		VolunteerName:        req.VolunteerName,
		CoVolunteerID:        req.CoVolunteerID,
		CoVolunteerName:      req.CoVolunteerName,
		ExtraVolunteerReason: string(req.EscalationReason),
		AutoTriggered:        req.AutoEscalated,
		DeliveryPhoto:        req.DeliveryPhoto,
		NgoRating:            req.Rating,
		NgoFeedback:          req.Feedback,
		CreatedAt:            req.CreatedAt,
		AcceptedAt:           req.AcceptedAt,
		AssignedAt:           req.AssignedAt,
		PickedUpAt:           req.PickedUpAt,
		InTransitAt:          req.InTransitAt,
		DeliveredAt:          req.DeliveredAt,
		CompletedAt:          req.CompletedAt,
	}
	if c := req.PickupCoordinate; c != nil {
		lat, lon := c.Lat, c.Lon
		gr.PickupLat, gr.PickupLon = &lat, &lon
	}
	return gr
}

func models(grs []gRequest) []*model.Request {
	reqs := make([]*model.Request, len(grs))
	for i := range grs {
		reqs[i] = grs[i].Model()
	}
	return reqs
}

// Create inserts a new food request row, using q for its execution.
func Create[Q postgres.Queryer](ctx context.Context, q Q, req *model.Request) error {
	gdb := q.GORM(ctx)
	gdb.Create(fromModel(req))
	if err := gdb.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

// ByID loads one food request by its identifier, using q for its
// execution.
func ByID[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.Request, error) {
	gdb := q.GORM(ctx)
	var gr []gRequest
	gdb.Where("request_id=?", id).Find(&gr)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gr); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gr[0].Model(), nil
}

// ByRequester lists the requests raised by the given NGO, newest
// first, using q for its execution.
func ByRequester[Q postgres.Queryer](ctx context.Context, q Q, requester uuid.UUID) ([]*model.Request, error) {
	gdb := q.GORM(ctx)
	var gr []gRequest
	gdb.Where("ngo_id=?", requester).Order("created_at DESC").Find(&gr)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return models(gr), nil
}

// ByDonor lists the requests accepted by the given donor, newest
// first, using q for its execution.
func ByDonor[Q postgres.Queryer](ctx context.Context, q Q, donor uuid.UUID) ([]*model.Request, error) {
	gdb := q.GORM(ctx)
	var gr []gRequest
	gdb.Where("donor_id=?", donor).Order("created_at DESC").Find(&gr)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return models(gr), nil
}

// PendingByUrgency lists the pending requests with the most urgent
// first, using q for its execution.
func PendingByUrgency[Q postgres.Queryer](ctx context.Context, q Q) ([]*model.Request, error) {
	gdb := q.GORM(ctx)
	var gr []gRequest
	gdb.Where(
		"status=?", model.StatusPending.String(),
	).Order("urgency_score DESC").Find(&gr)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return models(gr), nil
}

// VolunteerTasks lists the not yet completed requests on which the
// given volunteer acts as primary or co-volunteer, using q for its
// execution.
func VolunteerTasks[Q postgres.Queryer](ctx context.Context, q Q, volunteer uuid.UUID) ([]*model.Request, error) {
	gdb := q.GORM(ctx)
	var gr []gRequest
	gdb.Where(
		"(volunteer_id=? OR co_volunteer_id=?) AND status<>?",
		volunteer, volunteer, model.StatusCompleted.String(),
	).Order("assigned_at").Find(&gr)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return models(gr), nil
}

// gAggregate carries one aggregate row of the analytics queries; the
// label holds either a status name or a YYYY-MM-DD day.
type gAggregate struct {
	Label     string
	Requests  int
	PeopleFed int
}

// StatusAggregates counts the requests and fed people per status
// actually present in the table, using q for its execution.
func StatusAggregates[Q postgres.Queryer](ctx context.Context, q Q) ([]model.StatusAggregate, error) {
	gdb := q.GORM(ctx)
	var rows []gAggregate
	gdb.Model(&gRequest{}).Select(
		"status AS label, COUNT(*) AS requests," +
			" COALESCE(SUM(people_count), 0) AS people_fed",
	).Group("status").Scan(&rows)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	aggs := make([]model.StatusAggregate, 0, len(rows))
	for _, row := range rows {
		st, err := model.ParseStatus(row.Label)
		if err != nil {
			return nil, fmt.Errorf("parsing status %q: %w", row.Label, err)
		}
		aggs = append(aggs, model.StatusAggregate{
			Status:    st,
			Requests:  row.Requests,
			PeopleFed: row.PeopleFed,
		})
	}
	return aggs, nil
}

// CompletedTrends aggregates the completed requests per creation day,
// oldest day first, using q for its execution.
func CompletedTrends[Q postgres.Queryer](ctx context.Context, q Q) ([]model.DailyTrend, error) {
	gdb := q.GORM(ctx)
	var rows []gAggregate
	gdb.Model(&gRequest{}).Select(
		"TO_CHAR(created_at, 'YYYY-MM-DD') AS label," +
			" COUNT(*) AS requests," +
			" COALESCE(SUM(people_count), 0) AS people_fed",
	).Where(
		"status=?", model.StatusCompleted.String(),
	).Group("label").Order("label").Scan(&rows)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	trends := make([]model.DailyTrend, len(rows))
	for i, row := range rows {
		trends[i] = model.DailyTrend{
			Date:      row.Label,
			Requests:  row.Requests,
			PeopleFed: row.PeopleFed,
		}
	}
	return trends, nil
}

// Accept moves a pending request to accepted_by_donor, recording the
// donor identity and offer details, using q for its execution. The
// write is conditioned on the pending status, so of two concurrent
// donors, exactly one observes a successful update.
func Accept[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, donor *model.Participant, availabilityTime, foodCondition string, at time.Time) (*model.Request, error) {
	gdb := q.GORM(ctx)
	var gr []gRequest
	gdb.Model(&gr).Clauses(clause.Returning{}).Where(
		"request_id=? AND status=?", id, model.StatusPending.String(),
	).Updates(map[string]any{
		"status":            model.StatusAcceptedByDonor.String(),
		"donor_id":          donor.ID,
		"donor_name":        donor.Name,
		"availability_time": availabilityTime,
		"food_condition":    foodCondition,
		"accepted_at":       at,
	})
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gr); n != 1 {
		return nil, guardFailure(ctx, q, id, n)
	}
	return gr[0].Model(), nil
}

// Assign moves an accepted_by_donor request to assigned_to_volunteer,
// recording the selected volunteer, using q for its execution.
func Assign[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, vol *model.Participant, at time.Time) (*model.Request, error) {
	gdb := q.GORM(ctx)
	var gr []gRequest
	gdb.Model(&gr).Clauses(clause.Returning{}).Where(
		"request_id=? AND status=?",
		id, model.StatusAcceptedByDonor.String(),
	).Updates(map[string]any{
		"status":         model.StatusAssigned.String(),
		"volunteer_id":   vol.ID,
		"volunteer_name": vol.Name,
		"assigned_at":    at,
	})
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gr); n != 1 {
		return nil, guardFailure(ctx, q, id, n)
	}
	return gr[0].Model(), nil
}

// SetCoVolunteer records the escalation outcome, conditioned on the
// co-volunteer slot still being empty, using q for its execution.
func SetCoVolunteer[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, vol *model.Participant, reason model.EscalationReason, auto bool) (*model.Request, error) {
	gdb := q.GORM(ctx)
	var gr []gRequest
	gdb.Model(&gr).Clauses(clause.Returning{}).Where(
		"request_id=? AND co_volunteer_id IS NULL", id,
	).Updates(map[string]any{
		"co_volunteer_id":        vol.ID,
		"co_volunteer_name":      vol.Name,
		"extra_volunteer_reason": string(reason),
		"auto_triggered":         auto,
	})
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gr); n != 1 {
		return nil, guardFailure(ctx, q, id, n)
	}
	return gr[0].Model(), nil
}

// stampColumn returns the timestamp column which records when the
// given status was entered.
func stampColumn(s model.Status) string {
	switch s {
	case model.StatusPickedUp:
		return "picked_up_at"
	case model.StatusInTransit:
		return "in_transit_at"
	case model.StatusDelivered:
		return "delivered_at"
	default:
		panic(model.StatusError(s))
	}
}

// AdvanceDelivery moves a request along one volunteer-driven edge,
// stamping the matching timestamp, using q for its execution. The
// photo reference is stored on the delivered edge only.
func AdvanceDelivery[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, from, to model.Status, photo string, at time.Time) (*model.Request, error) {
	cols := map[string]any{
		"status":         to.String(),
		stampColumn(to): at,
	}
	if to == model.StatusDelivered && photo != "" {
		cols["delivery_photo"] = photo
	}
	gdb := q.GORM(ctx)
	var gr []gRequest
	gdb.Model(&gr).Clauses(clause.Returning{}).Where(
		"request_id=? AND status=?", id, from.String(),
	).Updates(cols)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gr); n != 1 {
		return nil, guardFailure(ctx, q, id, n)
	}
	return gr[0].Model(), nil
}

// Complete moves a delivered request to completed, recording the
// optional rating and feedback, using q for its execution.
func Complete[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, rating *int, feedback string, at time.Time) (*model.Request, error) {
	cols := map[string]any{
		"status":       model.StatusCompleted.String(),
		"ngo_feedback": feedback,
		"completed_at": at,
	}
	if rating != nil {
		cols["ngo_rating"] = *rating
	}
	gdb := q.GORM(ctx)
	var gr []gRequest
	gdb.Model(&gr).Clauses(clause.Returning{}).Where(
		"request_id=? AND status=?",
		id, model.StatusDelivered.String(),
	).Updates(cols)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gr); n != 1 {
		return nil, guardFailure(ctx, q, id, n)
	}
	return gr[0].Model(), nil
}

// guardFailure maps an empty conditioned update result to either a
// not-found error, if no such request exists at all, or an
// invalid-transition error, if the request exists but lost its guard
// window to a concurrent writer or never matched it.
func guardFailure[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, n int) error {
	if n > 1 {
		return fmt.Errorf("expected one row, but got %d", n)
	}
	if _, err := ByID(ctx, q, id); err != nil {
		return err
	}
	return cerr.InvalidTransition(
		fmt.Errorf("request %s refused the status change", id),
	)
}
