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
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/carverauto/qubell-status/pkg/logger"
	"github.com/carverauto/qubell-status/pkg/models"
	"github.com/carverauto/qubell-status/pkg/watchmouse"
)

var (
	errEndpointInvalid   = errors.New("endpoint must be an absolute http(s) URL")
	errNegativeDuration  = errors.New("durations must not be negative")
	errNegativeBodyLimit = errors.New("max_body_bytes must not be negative")
)

const (
	defaultNotifyDuration = 2 * time.Second
	defaultLogOutput      = "status.log"
)

// Config is the configuration of the status screen.
type Config struct {
	Endpoint        string          `json:"endpoint" yaml:"endpoint"`
	ServiceName     string          `json:"service_name" yaml:"service_name"`
	RequestTimeout  models.Duration `json:"request_timeout" yaml:"request_timeout"`
	RefreshInterval models.Duration `json:"refresh_interval" yaml:"refresh_interval"`
	NotifyDuration  models.Duration `json:"notify_duration" yaml:"notify_duration"`
	MaxBodyBytes    int64           `json:"max_body_bytes" yaml:"max_body_bytes"`
	ProxyURL        string          `json:"proxy_url,omitempty" yaml:"proxy_url,omitempty"`
	Logging         *logger.Config  `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// DefaultConfig returns the built-in configuration: the original endpoint and
// probe, no request timeout and no auto-refresh.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:       watchmouse.DefaultEndpoint,
		ServiceName:    watchmouse.DefaultServiceName,
		NotifyDuration: models.Duration(defaultNotifyDuration),
		MaxBodyBytes:   watchmouse.DefaultMaxBodyBytes,
		Logging:        defaultLogging(),
	}
}

// defaultLogging keeps log lines off the terminal the screen is drawn on,
// unless LOG_OUTPUT says otherwise.
func defaultLogging() *logger.Config {
	logging := logger.DefaultConfig()
	if os.Getenv("LOG_OUTPUT") == "" {
		logging.Output = defaultLogOutput
	}

	return logging
}

// UseConsoleLogging moves logging from the default log file to stderr. Runs
// that draw no screen call it so they leave no file behind; an explicitly
// configured output is kept.
func (c *Config) UseConsoleLogging() {
	if c.Logging == nil {
		c.Logging = defaultLogging()
	}

	if c.Logging.Output == defaultLogOutput {
		c.Logging.Output = "stderr"
	}
}

// Validate implements config.Validator interface.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		c.Endpoint = watchmouse.DefaultEndpoint
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errEndpointInvalid, c.Endpoint)
	}

	if c.ServiceName == "" {
		c.ServiceName = watchmouse.DefaultServiceName
	}

	if c.RequestTimeout < 0 || c.RefreshInterval < 0 || c.NotifyDuration < 0 {
		return errNegativeDuration
	}

	if c.NotifyDuration == 0 {
		c.NotifyDuration = models.Duration(defaultNotifyDuration)
	}

	if c.MaxBodyBytes < 0 {
		return errNegativeBodyLimit
	}

	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = watchmouse.DefaultMaxBodyBytes
	}

	if c.Logging == nil {
		c.Logging = defaultLogging()
	}

	return nil
}

// ClientOptions maps the configuration onto watchmouse client options.
func (c *Config) ClientOptions(log logger.Logger) watchmouse.Options {
	return watchmouse.Options{
		Endpoint:     c.Endpoint,
		ServiceName:  c.ServiceName,
		Timeout:      time.Duration(c.RequestTimeout),
		MaxBodyBytes: c.MaxBodyBytes,
		ProxyURL:     c.ProxyURL,
		Logger:       log,
	}
}
