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

package status

import (
	"fmt"

	"github.com/carverauto/qubell-status/pkg/models"
)

// Availability thresholds. Strictly above WarningAvailability is OK, strictly
// above FailedAvailability up to WarningAvailability is a warning.
const (
	WarningAvailability = 99
	FailedAvailability  = 90
)

// Fixed label texts for the non-percentage states.
const (
	UpdatingText = "Updating..."
	FailedText   = "Failed to update"
)

// State is the color class of the availability label.
type State int

const (
	// StateUpdating is shown while a fetch is in flight.
	StateUpdating State = iota
	// StateOK is availability above WarningAvailability.
	StateOK
	// StateWarning is availability above FailedAvailability.
	StateWarning
	// StateError is any other non-negative availability.
	StateError
	// StateFailed means the last refresh produced no percentage.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUpdating:
		return "updating"
	case StateOK:
		return "ok"
	case StateWarning:
		return "warning"
	case StateError:
		return "error"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Label is what the screen shows: the text and its color class.
type Label struct {
	Text  string
	State State
}

// UpdatingLabel is shown from the moment a refresh starts.
func UpdatingLabel() Label {
	return Label{Text: UpdatingText, State: StateUpdating}
}

// Classify maps a percentage to its color class. Any negative value is the
// failure sentinel.
func Classify(percentage int) State {
	switch {
	case percentage < 0:
		return StateFailed
	case percentage > WarningAvailability:
		return StateOK
	case percentage > FailedAvailability:
		return StateWarning
	default:
		return StateError
	}
}

// Render builds the label for a refresh outcome.
func Render(percentage int) Label {
	state := Classify(percentage)
	if state == StateFailed {
		return Label{Text: FailedText, State: StateFailed}
	}

	return Label{Text: fmt.Sprintf("%d%%", percentage), State: state}
}

// RenderResult is Render for a whole cycle outcome.
func RenderResult(result models.AvailabilityResult) Label {
	if result.Err != nil {
		return Render(models.FailedAvailability)
	}

	return Render(result.Percentage)
}
