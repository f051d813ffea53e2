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

package watchmouse

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/carverauto/qubell-status/pkg/models"
)

// statusReport is the top level of the monitoring document. Records are
// decoded lazily so that entries after the match are never inspected.
type statusReport struct {
	Result *[]json.RawMessage `json:"result"`
}

type rawRecord struct {
	Info *struct {
		Name json.RawMessage `json:"name"`
	} `json:"info"`
	Cur json.RawMessage `json:"cur"`
}

type rawCurrent struct {
	Uptime json.Number `json:"uptime"`
}

// ParseAvailability scans the "result" array in document order and returns the
// first record whose info.name equals service. Malformed input up to and
// including the matching record is a KindParse error; no match is KindNotFound.
func ParseAvailability(body []byte, service string) (models.ProbeRecord, error) {
	var report statusReport
	if err := json.Unmarshal(body, &report); err != nil {
		return models.ProbeRecord{}, parseError(err)
	}

	if report.Result == nil {
		return models.ProbeRecord{}, parseError(fmt.Errorf(`%w: "result"`, errMissingField))
	}

	for i, raw := range *report.Result {
		var rec rawRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return models.ProbeRecord{}, parseError(fmt.Errorf("result[%d]: %w", i, err))
		}

		if rec.Info == nil || isNull(rec.Info.Name) {
			return models.ProbeRecord{}, parseError(fmt.Errorf(`result[%d]: %w: "info.name"`, i, errMissingField))
		}

		if recordName(rec.Info.Name) != service {
			continue
		}

		uptime, err := parseUptime(rec.Cur)
		if err != nil {
			return models.ProbeRecord{}, parseError(fmt.Errorf("result[%d]: %w", i, err))
		}

		return models.ProbeRecord{
			Info: models.ProbeInfo{Name: service},
			Cur:  models.ProbeCurrent{Uptime: uptime},
		}, nil
	}

	return models.ProbeRecord{}, notFoundError(service)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// recordName returns a string name as is and any other JSON value as its
// literal text, so a record with a numeric name is skipped rather than fatal.
func recordName(raw json.RawMessage) string {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name
	}

	return string(raw)
}

// clampUptime saturates v to the 32-bit range the report format uses.
func clampUptime(v float64) int {
	switch {
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int(v)
	}
}

// parseUptime accepts integers, numeric strings and fractional values, which
// are truncated toward zero. Out-of-range values saturate.
func parseUptime(raw json.RawMessage) (int, error) {
	if isNull(raw) {
		return 0, fmt.Errorf(`%w: "cur"`, errMissingField)
	}

	var cur rawCurrent
	if err := json.Unmarshal(raw, &cur); err != nil {
		return 0, fmt.Errorf("cur: %w", err)
	}

	if cur.Uptime == "" {
		return 0, fmt.Errorf(`%w: "cur.uptime"`, errMissingField)
	}

	if i, err := cur.Uptime.Int64(); err == nil {
		return clampUptime(float64(i)), nil
	}

	f, err := cur.Uptime.Float64()
	if err != nil {
		return 0, fmt.Errorf("cur.uptime: %w", err)
	}

	return clampUptime(math.Trunc(f)), nil
}
