// Copyright (c) 2025 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// StatusAggregate counts the requests holding one status and the
// people they feed. Only statuses actually present in the storage are
// reported; absent statuses simply yield no aggregate row.
type StatusAggregate struct {
	Status    Status
	Requests  int
	PeopleFed int
}

// DailyTrend aggregates the completed requests which were created on
// one day, identified by its YYYY-MM-DD form.
type DailyTrend struct {
	Date      string `json:"date"`
	Requests  int    `json:"requests"`
	PeopleFed int    `json:"people_fed"`
}

// DashboardStats is the platform-wide snapshot served to the admin
// dashboard. The success rate is a percentage with two decimals, zero
// when no request exists yet; the distribution covers every lifecycle
// status, zero-filled for statuses without requests.
type DashboardStats struct {
	TotalRequests      int            `json:"total_requests"`
	CompletedRequests  int            `json:"completed_requests"`
	TotalPeopleFed     int            `json:"total_people_fed"`
	NGOCount           int            `json:"ngo_count"`
	DonorCount         int            `json:"donor_count"`
	VolunteerCount     int            `json:"volunteer_count"`
	SuccessRate        float64        `json:"success_rate"`
	StatusDistribution map[string]int `json:"status_distribution"`
}
