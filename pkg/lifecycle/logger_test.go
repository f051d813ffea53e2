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

package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/carverauto/qubell-status/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComponentLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "component.log")

	l, err := CreateComponentLogger(context.Background(), "refresher", &logger.Config{Level: "debug", Output: path})
	require.NoError(t, err)

	l.Debug().Int("generation", 3).Msg("refresh requested")
	require.NoError(t, ShutdownLogger())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"refresher"`)
	assert.Contains(t, string(data), `"generation":3`)
}

func TestNewLoggerImplLevels(t *testing.T) {
	impl, err := NewLoggerImpl(context.Background(), &logger.Config{Level: "warn", Output: "stderr"})
	require.NoError(t, err)
	assert.False(t, impl.Info().Enabled())
	assert.True(t, impl.Warn().Enabled())

	impl.SetDebug(true)
	assert.True(t, impl.Debug().Enabled())

	impl.SetLevel(zerolog.ErrorLevel)
	assert.False(t, impl.Warn().Enabled())
}

func TestNewLoggerImplRejectsBadLevel(t *testing.T) {
	_, err := CreateLogger(context.Background(), &logger.Config{Level: "loud"})
	require.Error(t, err)
}

func TestInitializeTelemetryDisabled(t *testing.T) {
	log := logger.NewTestLogger()

	require.NoError(t, InitializeTelemetry(context.Background(), nil, log))
	require.NoError(t, InitializeTelemetry(context.Background(), &logger.Config{}, log))
	require.NoError(t, InitializeTelemetry(context.Background(), &logger.Config{
		OTel: logger.OTelConfig{Enabled: true},
	}, log))
}
