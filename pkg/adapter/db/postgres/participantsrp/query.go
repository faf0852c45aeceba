// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package participantsrp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smartplate/smartplate/pkg/adapter/db/postgres"
	"github.com/smartplate/smartplate/pkg/core/cerr"
	"github.com/smartplate/smartplate/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gParticipant additionally persists the verified_by and verified_at
// audit columns which are not exposed through the core model.
type gParticipant struct {
	UID                uuid.UUID `gorm:"primaryKey;type:uuid;column:user_id"`
	Email              string
	PasswordHash       string
	Name               string
	Role               string
	Phone              string
	Location           string
	Lat                *float64
	Lon                *float64
	TransportMode      string
	CompletedTasks     int
	Organization       string
	VerificationStatus string
	VerificationNotes  string
	VerifiedBy         *uuid.UUID `gorm:"type:uuid"`
	VerifiedAt         *time.Time
	TotalRequests      int
	CompletedRequests  int
	DonorType          string
	TotalDonations     int
	ReliabilityScore   float64
	CreatedAt          time.Time
}

func (gp *gParticipant) TableName() string {
	return "participants"
}

func (gp *gParticipant) Model() *model.Participant {
	role, _ := model.ParseRole(gp.Role)
	var c *model.Coordinate
	if gp.Lat != nil && gp.Lon != nil {
		c = &model.Coordinate{Lat: *gp.Lat, Lon: *gp.Lon}
	}
	return &model.Participant{
		ID:                 gp.UID,
		Email:              gp.Email,
		PasswordHash:       gp.PasswordHash,
		Name:               gp.Name,
		Role:               role,
		Phone:              gp.Phone,
		Location:           gp.Location,
		Coordinate:         c,
		TransportMode:      model.TransportMode(gp.TransportMode),
		CompletedTasks:     gp.CompletedTasks,
		Organization:       gp.Organization,
		VerificationStatus: model.VerificationStatus(gp.VerificationStatus),
		VerificationNotes:  gp.VerificationNotes,
		TotalRequests:      gp.TotalRequests,
		CompletedRequests:  gp.CompletedRequests,
		DonorType:          gp.DonorType,
		TotalDonations:     gp.TotalDonations,
		ReliabilityScore:   gp.ReliabilityScore,
		CreatedAt:          gp.CreatedAt,
	}
}

func fromModel(p *model.Participant) *gParticipant {
	gp := &gParticipant{
		UID:                p.ID,
		Email:              p.Email,
		PasswordHash:       p.PasswordHash,
		Name:               p.Name,
		Role:               p.Role.String(),
		Phone:              p.Phone,
		Location:           p.Location,
		TransportMode:      string(p.TransportMode),
		CompletedTasks:     p.CompletedTasks,
		Organization:       p.Organization,
		VerificationStatus: string(p.VerificationStatus),
		VerificationNotes:  p.VerificationNotes,
		TotalRequests:      p.TotalRequests,
		CompletedRequests:  p.CompletedRequests,
		DonorType:          p.DonorType,
		TotalDonations:     p.TotalDonations,
		ReliabilityScore:   p.ReliabilityScore,
		CreatedAt:          p.CreatedAt,
	}
	if c := p.Coordinate; c != nil {
		lat, lon := c.Lat, c.Lon
		gp.Lat, gp.Lon = &lat, &lon
	}
	return gp
}

func models(gps []gParticipant) []*model.Participant {
	ps := make([]*model.Participant, len(gps))
	for i := range gps {
		ps[i] = gps[i].Model()
	}
	return ps
}

// Create inserts a new participant row, using q for its execution.
func Create[Q postgres.Queryer](ctx context.Context, q Q, p *model.Participant) error {
	gdb := q.GORM(ctx)
	gdb.Create(fromModel(p))
	if err := gdb.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	return nil
}

// ByID loads one participant by its identifier, using q for its
// execution.
func ByID[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID) (*model.Participant, error) {
	gdb := q.GORM(ctx)
	var gp []gParticipant
	gdb.Where("user_id=?", id).Find(&gp)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gp); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gp[0].Model(), nil
}

// ByEmail loads one participant by its unique email address, using q
// for its execution.
func ByEmail[Q postgres.Queryer](ctx context.Context, q Q, email string) (*model.Participant, error) {
	gdb := q.GORM(ctx)
	var gp []gParticipant
	gdb.Where("email=?", email).Find(&gp)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gp); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gp[0].Model(), nil
}

// Volunteers lists all registered volunteers in registration order,
// using q for its execution. The stable order keeps the matching
// policies deterministic under equal scores.
func Volunteers[Q postgres.Queryer](ctx context.Context, q Q) ([]*model.Participant, error) {
	gdb := q.GORM(ctx)
	var gp []gParticipant
	gdb.Where(
		"role=?", model.RoleVolunteer.String(),
	).Order("created_at").Find(&gp)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return models(gp), nil
}

// PendingNGOs lists the NGOs awaiting a verification decision, using
// q for its execution.
func PendingNGOs[Q postgres.Queryer](ctx context.Context, q Q) ([]*model.Participant, error) {
	gdb := q.GORM(ctx)
	var gp []gParticipant
	gdb.Where(
		"role=? AND verification_status=?",
		model.RoleNGO.String(), string(model.VerificationPending),
	).Order("created_at").Find(&gp)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return models(gp), nil
}

// All lists every registered participant in registration order, using
// q for its execution.
func All[Q postgres.Queryer](ctx context.Context, q Q) ([]*model.Participant, error) {
	gdb := q.GORM(ctx)
	var gp []gParticipant
	gdb.Order("created_at").Find(&gp)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return models(gp), nil
}

// RoleCounts counts the registered participants per role, using q for
// its execution.
func RoleCounts[Q postgres.Queryer](ctx context.Context, q Q) (map[model.Role]int, error) {
	gdb := q.GORM(ctx)
	var rows []struct {
		Role string
		N    int
	}
	gdb.Model(&gParticipant{}).Select(
		"role, COUNT(*) AS n",
	).Group("role").Scan(&rows)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	counts := make(map[model.Role]int, len(rows))
	for _, row := range rows {
		role, err := model.ParseRole(row.Role)
		if err != nil {
			return nil, fmt.Errorf("parsing role %q: %w", row.Role, err)
		}
		counts[role] = row.N
	}
	return counts, nil
}

// IncCounter increments the named counter column of one participant,
// using q for its execution.
func IncCounter[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, column string) error {
	gdb := q.GORM(ctx)
	gdb = gdb.Model(&gParticipant{}).Where("user_id=?", id).Update(
		column, gorm.Expr(column+"+1"),
	)
	if err := gdb.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if n := gdb.RowsAffected; n != 1 {
		return cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return nil
}

// IncReturning increments the named counter column of one participant
// and returns the updated row, so callers can recompute derived
// scores from the fresh counter values, using q for its execution.
func IncReturning[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, column string) (*model.Participant, error) {
	gdb := q.GORM(ctx)
	var gp []gParticipant
	gdb.Model(&gp).Clauses(clause.Returning{}).Where(
		"user_id=?", id,
	).Update(column, gorm.Expr(column+"+1"))
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gp); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gp[0].Model(), nil
}

// SetReliability overwrites the reliability score of one participant,
// using q for its execution.
func SetReliability[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, scoreValue float64) error {
	gdb := q.GORM(ctx)
	gdb = gdb.Model(&gParticipant{}).Where("user_id=?", id).Update(
		"reliability_score", scoreValue,
	)
	if err := gdb.Error; err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if n := gdb.RowsAffected; n != 1 {
		return cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return nil
}

// SetVerification records an admin's verification decision over an
// NGO, together with the decision notes and reviewer, using q for its
// execution. Deciding over a non-NGO participant is a bad request.
func SetVerification[Q postgres.Queryer](ctx context.Context, q Q, id uuid.UUID, status model.VerificationStatus, notes string, verifiedBy uuid.UUID, at time.Time) (*model.Participant, error) {
	gdb := q.GORM(ctx)
	var gp []gParticipant
	gdb.Model(&gp).Clauses(clause.Returning{}).Where(
		"user_id=? AND role=?", id, model.RoleNGO.String(),
	).Updates(map[string]any{
		"verification_status": string(status),
		"verification_notes":  notes,
		"verified_by":         verifiedBy,
		"verified_at":         at,
	})
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gp); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gp[0].Model(), nil
}
