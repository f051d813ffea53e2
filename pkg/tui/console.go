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

package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/qubell-status/pkg/models"
	"github.com/carverauto/qubell-status/pkg/status"
)

// ConsoleView prints labels and notifications as plain lines, for one-shot
// runs and non-interactive output.
type ConsoleView struct {
	mu     sync.Mutex
	out    io.Writer
	styles styles
}

var _ status.View = (*ConsoleView)(nil)

func NewConsoleView(out io.Writer) *ConsoleView {
	return &ConsoleView{out: out, styles: newStyles()}
}

// ShowLabel prints final labels only; the transient updating state is skipped.
func (c *ConsoleView) ShowLabel(label status.Label) {
	if label.State == status.StateUpdating {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	style := lipgloss.NewStyle().Foreground(c.styles.label(label.State).GetForeground())
	_, _ = fmt.Fprintln(c.out, style.Render(label.Text))
}

func (c *ConsoleView) Notify(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = fmt.Fprintln(c.out, c.styles.hint.Render(message))
}

// consoleResult is the -json rendition of a refresh cycle.
type consoleResult struct {
	models.AvailabilityResult
	Label string `json:"label"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// WriteJSON prints result as a single JSON document.
func WriteJSON(out io.Writer, result models.AvailabilityResult) error {
	label := status.RenderResult(result)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(consoleResult{
		AvailabilityResult: result,
		Label:              label.Text,
		State:              label.State.String(),
		Error:              result.ErrorMessage(),
	})
}
