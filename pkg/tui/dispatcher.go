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
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// dispatchMsg carries a function to run inside Update.
type dispatchMsg struct {
	fn func()
}

// ChannelDispatcher hands functions from background goroutines to the
// bubbletea event loop, which runs them in Update.
type ChannelDispatcher struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

func NewChannelDispatcher() *ChannelDispatcher {
	return &ChannelDispatcher{
		ch:   make(chan func()),
		done: make(chan struct{}),
	}
}

// Dispatch blocks until the event loop picks fn up or the dispatcher is
// closed, in which case fn is dropped.
func (d *ChannelDispatcher) Dispatch(fn func()) {
	select {
	case d.ch <- fn:
	case <-d.done:
	}
}

// Next waits for the next dispatched function. Update must re-issue it after
// every dispatchMsg to keep the pump running.
func (d *ChannelDispatcher) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-d.ch:
			return dispatchMsg{fn: fn}
		case <-d.done:
			return nil
		}
	}
}

func (d *ChannelDispatcher) Close() {
	d.once.Do(func() { close(d.done) })
}
