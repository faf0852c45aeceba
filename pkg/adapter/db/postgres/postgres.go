// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres adapts the core repo interfaces to a PostgreSQL
// DBMS using the GORM framework. The Pool, Conn, and Tx types realize
// the connection acquisition discipline of the core layer, while the
// repository sub-packages (requestsrp and participantsrp) run the
// actual queries. Compare-and-set status updates are expressed as
// conditioned UPDATE statements with a RETURNING clause, so a lost
// guard window is observable as an empty result set.
package postgres

import (
	"context"
	"fmt"

	"github.com/smartplate/smartplate/pkg/core/repo"
)

// schemaDDL creates the two tables of the donation platform. Requests
// are never deleted, serving as an audit trail; the status column is
// indexed for the donor browsing and volunteer task queries.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS participants (
    user_id uuid PRIMARY KEY,
    email varchar(320) NOT NULL UNIQUE,
    password_hash varchar(200) NOT NULL,
    name varchar(100) NOT NULL,
    role varchar(10) NOT NULL,
    phone varchar(20) NOT NULL DEFAULT '',
    location varchar(200) NOT NULL DEFAULT '',
    lat double precision,
    lon double precision,
    transport_mode varchar(20) NOT NULL DEFAULT '',
    completed_tasks integer NOT NULL DEFAULT 0,
    organization varchar(200) NOT NULL DEFAULT '',
    verification_status varchar(10) NOT NULL DEFAULT '',
    verification_notes text NOT NULL DEFAULT '',
    verified_by uuid,
    verified_at timestamptz,
    total_requests integer NOT NULL DEFAULT 0,
    completed_requests integer NOT NULL DEFAULT 0,
    donor_type varchar(50) NOT NULL DEFAULT '',
    total_donations integer NOT NULL DEFAULT 0,
    reliability_score double precision NOT NULL DEFAULT 0,
    created_at timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS food_requests (
    request_id uuid PRIMARY KEY,
    ngo_id uuid NOT NULL REFERENCES participants (user_id),
    ngo_name varchar(100) NOT NULL,
    ngo_organization varchar(200) NOT NULL DEFAULT '',
    food_type varchar(100) NOT NULL,
    food_category varchar(100) NOT NULL,
    quantity integer NOT NULL,
    quantity_unit varchar(30) NOT NULL,
    required_date varchar(10) NOT NULL,
    required_time varchar(8) NOT NULL,
    pickup_location varchar(200) NOT NULL,
    pickup_lat double precision,
    pickup_lon double precision,
    people_count integer NOT NULL,
    special_instructions text NOT NULL DEFAULT '',
    urgency_score double precision NOT NULL,
    status varchar(25) NOT NULL,
    donor_id uuid REFERENCES participants (user_id),
    donor_name varchar(100) NOT NULL DEFAULT '',
    availability_time varchar(100) NOT NULL DEFAULT '',
    food_condition varchar(100) NOT NULL DEFAULT '',
    volunteer_id uuid REFERENCES participants (user_id),
    volunteer_name varchar(100) NOT NULL DEFAULT '',
    co_volunteer_id uuid REFERENCES participants (user_id),
    co_volunteer_name varchar(100) NOT NULL DEFAULT '',
    extra_volunteer_reason varchar(100) NOT NULL DEFAULT '',
    auto_triggered boolean NOT NULL DEFAULT false,
    delivery_photo text NOT NULL DEFAULT '',
    ngo_rating integer,
    ngo_feedback text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL,
    accepted_at timestamptz,
    assigned_at timestamptz,
    picked_up_at timestamptz,
    in_transit_at timestamptz,
    delivered_at timestamptz,
    completed_at timestamptz
);

CREATE INDEX IF NOT EXISTS food_requests_status_idx
    ON food_requests (status);
CREATE INDEX IF NOT EXISTS food_requests_volunteers_idx
    ON food_requests (volunteer_id, co_volunteer_id);
`

// InitSchema creates the database schema if it does not exist yet.
// It is used by the "db init" command and by the integration test
// suites against a fresh container database.
func InitSchema(ctx context.Context, c repo.Conn) error {
	if _, err := c.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
