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

// Package tui is the interactive availability screen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/qubell-status/pkg/logger"
	"github.com/carverauto/qubell-status/pkg/status"
	"github.com/carverauto/qubell-status/pkg/version"
)

const (
	defaultNotifyDuration = 2 * time.Second
	lastUpdatedFormat     = "15:04:05"
)

// Refresher is the part of status.Refresher the screen drives.
type Refresher interface {
	Refresh()
	Close()
}

// Options configures the screen.
type Options struct {
	ServiceName     string
	Endpoint        string
	NotifyDuration  time.Duration
	RefreshInterval time.Duration
	Logger          logger.Logger
}

type (
	refreshMsg     struct{}
	autoRefreshMsg struct{}
	dismissMsg     struct{ seq int }
)

// Model is the bubbletea model of the availability screen. It implements
// status.View; the Refresher only touches it from inside Update.
type Model struct {
	refresher  Refresher
	dispatcher *ChannelDispatcher
	logger     logger.Logger

	service         string
	endpoint        string
	notifyDuration  time.Duration
	refreshInterval time.Duration

	label        status.Label
	lastUpdated  time.Time
	notification string
	notifySeq    int
	copyMessage  string
	canCopy      bool
	copy         func(string) error
	now          func() time.Time

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  styles

	pending  []tea.Cmd
	quitting bool
}

var _ status.View = (*Model)(nil)

// NewModel builds the screen. Attach a Refresher before running it.
func NewModel(opts Options) *Model {
	if opts.NotifyDuration <= 0 {
		opts.NotifyDuration = defaultNotifyDuration
	}

	if opts.Logger == nil {
		opts.Logger = logger.NewTestLogger()
	}

	st := newStyles()

	return &Model{
		dispatcher:      NewChannelDispatcher(),
		logger:          opts.Logger,
		service:         opts.ServiceName,
		endpoint:        opts.Endpoint,
		notifyDuration:  opts.NotifyDuration,
		refreshInterval: opts.RefreshInterval,
		label:           status.UpdatingLabel(),
		canCopy:         !clipboard.Unsupported,
		copy:            clipboard.WriteAll,
		now:             time.Now,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(draculaPink))),
		),
		help:   help.New(),
		keys:   newKeyMap(),
		styles: st,
	}
}

// Dispatcher is what the Refresher must use to reach this model.
func (m *Model) Dispatcher() *ChannelDispatcher {
	return m.dispatcher
}

// Attach sets the Refresher driven by the screen.
func (m *Model) Attach(r Refresher) {
	m.refresher = r
}

// Label is the label currently on screen.
func (m *Model) Label() status.Label {
	return m.label
}

// Notification is the transient message currently on screen, if any.
func (m *Model) Notification() string {
	return m.notification
}

// ShowLabel implements status.View.
func (m *Model) ShowLabel(label status.Label) {
	m.label = label
	if label.State != status.StateUpdating {
		m.lastUpdated = m.now()
	}
}

// Notify implements status.View. The message is dismissed after the notify
// duration unless a newer one replaced it.
func (m *Model) Notify(message string) {
	m.notifySeq++
	m.notification = message

	seq := m.notifySeq
	m.pending = append(m.pending, tea.Tick(m.notifyDuration, func(time.Time) tea.Msg {
		return dismissMsg{seq: seq}
	}))
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.dispatcher.Next(),
		func() tea.Msg { return refreshMsg{} },
		m.scheduleAutoRefresh(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.FocusMsg:
		// Coming back to the screen always shows fresh data.
		return m, m.refresh()
	case refreshMsg:
		return m, m.refresh()
	case autoRefreshMsg:
		return m, tea.Batch(m.refresh(), m.scheduleAutoRefresh())
	case dispatchMsg:
		msg.fn()

		return m, tea.Batch(append(m.takePending(), m.dispatcher.Next())...)
	case dismissMsg:
		if msg.seq == m.notifySeq {
			m.notification = ""
		}

		return m, nil
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Refresh):
		m.copyMessage = ""

		return m, m.refresh()
	case key.Matches(msg, m.keys.Copy):
		m.copyLabel()

		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

		return m, nil
	}

	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.Shutdown()

	return m, tea.Quit
}

// Shutdown stops the Refresher and the dispatch pump. Safe to call twice.
func (m *Model) Shutdown() {
	if m.refresher != nil {
		m.refresher.Close()
	}

	m.dispatcher.Close()
}

func (m *Model) refresh() tea.Cmd {
	if m.refresher == nil || m.quitting {
		return nil
	}

	m.refresher.Refresh()

	return tea.Batch(m.takePending()...)
}

func (m *Model) scheduleAutoRefresh() tea.Cmd {
	if m.refreshInterval <= 0 {
		return nil
	}

	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return autoRefreshMsg{}
	})
}

func (m *Model) takePending() []tea.Cmd {
	cmds := m.pending
	m.pending = nil

	return cmds
}

func (m *Model) copyLabel() {
	if !m.canCopy {
		m.copyMessage = "Clipboard is not available"

		return
	}

	if err := m.copy(m.label.Text); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to copy availability to clipboard")
		m.copyMessage = "Failed to copy to clipboard"

		return
	}

	m.copyMessage = "Copied to clipboard!"
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var content strings.Builder

	content.WriteString(m.styles.title.Render("Qubell status"))
	content.WriteString("\n")
	content.WriteString(m.styles.subtitle.Render(m.service + " availability"))
	content.WriteString("\n\n")

	label := m.styles.label(m.label.State).Render(m.label.Text)
	if m.label.State == status.StateUpdating {
		label = lipgloss.JoinHorizontal(lipgloss.Center, m.spinner.View(), " ", label)
	}

	content.WriteString(label)
	content.WriteString("\n")

	if !m.lastUpdated.IsZero() {
		content.WriteString(m.styles.help.Render("Last updated " + m.lastUpdated.Format(lastUpdatedFormat)))
		content.WriteString("\n")
	}

	if m.notification != "" {
		content.WriteString("\n")
		content.WriteString(m.styles.toast.Render(m.notification))
		content.WriteString("\n")
	}

	if m.copyMessage != "" {
		messageStyle := m.styles.success
		if strings.HasPrefix(m.copyMessage, "Failed") || !m.canCopy {
			messageStyle = m.styles.hint
		}

		content.WriteString("\n")
		content.WriteString(messageStyle.Render(m.copyMessage))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(m.help.View(m.keys))
	content.WriteString("\n")
	content.WriteString(m.styles.help.Render(fmt.Sprintf("%s  v%s", m.endpoint, version.GetVersion())))

	return m.styles.app.Align(lipgloss.Left).Render(content.String())
}

// Run shows the screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, m *Model) error {
	defer m.Shutdown()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("status screen: %w", err)
	}

	return nil
}
