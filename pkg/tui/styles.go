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
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/qubell-status/pkg/status"
)

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaOrange     = "#FFB86C"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

const appPadding = 2

type styles struct {
	title, subtitle, help, hint, success, toast, app lipgloss.Style

	// Indexed by status.State.
	labels map[status.State]lipgloss.Style
}

func newStyles() styles {
	label := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(draculaPurple))

	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true),
		subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaYellow)),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaOrange)),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)),
		toast: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaForeground)).
			Background(lipgloss.Color(draculaRed)).
			Padding(0, 1),
		app: lipgloss.NewStyle().
			Padding(1, appPadding).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(draculaCyan)).
			Foreground(lipgloss.Color(draculaForeground)),
		labels: map[status.State]lipgloss.Style{
			status.StateUpdating: label.Foreground(lipgloss.Color(draculaForeground)),
			status.StateOK:       label.Foreground(lipgloss.Color(draculaGreen)),
			status.StateWarning:  label.Foreground(lipgloss.Color(draculaOrange)),
			status.StateError:    label.Foreground(lipgloss.Color(draculaRed)),
			status.StateFailed:   label.Foreground(lipgloss.Color(draculaComment)),
		},
	}
}

func (s styles) label(state status.State) lipgloss.Style {
	if st, ok := s.labels[state]; ok {
		return st
	}

	return s.labels[status.StateUpdating]
}
