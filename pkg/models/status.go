/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import "time"

// FailedAvailability is the in-band marker for a refresh cycle that could not
// obtain a percentage.
const FailedAvailability = -1

// ProbeRecord is a single entry of the monitoring report's "result" array.
type ProbeRecord struct {
	Info ProbeInfo    `json:"info"`
	Cur  ProbeCurrent `json:"cur"`
}

// ProbeInfo identifies the monitored target.
type ProbeInfo struct {
	Name string `json:"name"`
}

// ProbeCurrent holds the current measurements of a probe.
type ProbeCurrent struct {
	Uptime int `json:"uptime"`
}

// AvailabilityResult is the outcome of one refresh cycle. It is created per
// cycle and consumed once by the renderer.
type AvailabilityResult struct {
	CycleID    string    `json:"cycle_id"`
	Service    string    `json:"service"`
	Percentage int       `json:"percentage"`
	Err        error     `json:"-"`
	FetchedAt  time.Time `json:"fetched_at"`
	Latency    Duration  `json:"latency"`
}

// OK reports whether the cycle produced a percentage.
func (r AvailabilityResult) OK() bool {
	return r.Err == nil && r.Percentage >= 0
}

// ErrorMessage returns the human-readable failure description, or "" on success.
func (r AvailabilityResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}

	return r.Err.Error()
}
