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

// Package watchmouse fetches probe availability from a WatchMouse-style
// monitoring report.
package watchmouse

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.31.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http/httpproxy"

	"github.com/carverauto/qubell-status/pkg/logger"
	"github.com/carverauto/qubell-status/pkg/models"
	"github.com/carverauto/qubell-status/pkg/version"
)

const (
	// DefaultEndpoint is the report for the monitored folder.
	DefaultEndpoint = "http://api.io.watchmouse.com/synth/current/62120/folder/28340/"
	// DefaultServiceName is the probe whose uptime is displayed.
	DefaultServiceName = "Express agent"
	// DefaultMaxBodyBytes caps how much of a response body is read.
	DefaultMaxBodyBytes = 4 << 20

	instrumentationName = "github.com/carverauto/qubell-status/pkg/watchmouse"
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	Endpoint     string
	ServiceName  string
	Timeout      time.Duration
	MaxBodyBytes int64
	ProxyURL     string
	HTTPClient   *http.Client
	Logger       logger.Logger
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// Client downloads the monitoring report and extracts one probe's uptime.
type Client struct {
	endpoint   string
	service    string
	maxBody    int64
	httpClient *http.Client
	logger     logger.Logger
	tracer     trace.Tracer
	parse      func(body []byte, service string) (models.ProbeRecord, error)
}

// NewClient validates the options and builds a Client.
func NewClient(opts Options) (*Client, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", errInvalidEndpoint, endpoint)
	}

	service := opts.ServiceName
	if service == "" {
		service = DefaultServiceName
	}

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport, err := newTransport(opts.ProxyURL)
		if err != nil {
			return nil, err
		}

		httpClient = &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		}
	}

	return &Client{
		endpoint:   endpoint,
		service:    service,
		maxBody:    maxBody,
		httpClient: httpClient,
		logger:     log,
		tracer:     tp.Tracer(instrumentationName),
		parse:      ParseAvailability,
	}, nil
}

// newTransport clones the default transport and resolves proxies from the
// environment, with proxyURL overriding HTTP_PROXY and HTTPS_PROXY.
func newTransport(proxyURL string) (*http.Transport, error) {
	proxyConfig := httpproxy.FromEnvironment()

	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", proxyURL, err)
		}

		proxyConfig.HTTPProxy = proxyURL
		proxyConfig.HTTPSProxy = proxyURL
	}

	proxyFunc := proxyConfig.ProxyFunc()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = func(req *http.Request) (*url.URL, error) {
		return proxyFunc(req.URL)
	}

	return transport, nil
}

// Endpoint returns the report URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ServiceName returns the probe name being looked up.
func (c *Client) ServiceName() string {
	return c.service
}

// FetchAvailability downloads the report and returns the uptime percentage of
// the configured probe. Failures are *Error values of KindFetch, KindParse or
// KindNotFound; the returned percentage is then models.FailedAvailability.
func (c *Client) FetchAvailability(ctx context.Context) (int, error) {
	body, err := c.download(ctx)
	if err != nil {
		return models.FailedAvailability, err
	}

	record, err := c.parse(body, c.service)
	if err != nil {
		return models.FailedAvailability, err
	}

	return record.Cur.Uptime, nil
}

func (c *Client) download(ctx context.Context) (body []byte, err error) {
	ctx, span := c.tracer.Start(ctx, "watchmouse.download",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(semconv.HTTPRequestMethodGet, semconv.URLFull(c.endpoint)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, http.NoBody)
	if err != nil {
		return nil, fetchError(err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	if id, ok := RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", id)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fetchError(err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug().Err(cerr).Msg("Failed to close status response body")
		}
	}()

	span.SetAttributes(semconv.HTTPResponseStatusCode(resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fetchError(fmt.Errorf("%w: %s", errUnexpectedStatus, resp.Status))
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fetchError(err)
	}

	if int64(len(body)) > c.maxBody {
		return nil, fetchError(fmt.Errorf("%w: more than %d bytes", errBodyTooLarge, c.maxBody))
	}

	c.logger.Debug().
		Str("endpoint", c.endpoint).
		Int("status_code", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("Downloaded status report")

	return body, nil
}
