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
	"errors"
	"fmt"
)

// Kind classifies why a status fetch failed.
type Kind int

const (
	// KindNone marks a nil or foreign error.
	KindNone Kind = iota
	// KindFetch is a transport failure, a non-2xx status or an oversized body.
	KindFetch
	// KindParse is a report that is not valid JSON or lacks required fields.
	KindParse
	// KindNotFound means no record carries the configured probe name.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFetch:
		return "fetch"
	case KindParse:
		return "parse"
	case KindNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels for errors.Is matching against an *Error of the same kind.
var (
	ErrFetch    = errors.New("status fetch failed")
	ErrParse    = errors.New("status parse failed")
	ErrNotFound = errors.New("status not found")

	errUnexpectedStatus = errors.New("unexpected HTTP status")
	errBodyTooLarge     = errors.New("response body too large")
	errMissingField     = errors.New("missing field")
	errInvalidEndpoint  = errors.New("invalid status endpoint")
)

const (
	downloadFailedMsg = "Failed to download status info"
	parseFailedMsg    = "Failed to parse status info"
)

// Error is the failure value of FetchAvailability. Message is the human-readable
// description shown to the user; Err is the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}

	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrFetch:
		return e.Kind == KindFetch
	case ErrParse:
		return e.Kind == KindParse
	case ErrNotFound:
		return e.Kind == KindNotFound
	default:
		return false
	}
}

// KindOf returns the Kind carried by err, or KindNone when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindNone
}

func fetchError(cause error) *Error {
	return &Error{Kind: KindFetch, Message: downloadFailedMsg, Err: cause}
}

func parseError(cause error) *Error {
	return &Error{Kind: KindParse, Message: parseFailedMsg, Err: cause}
}

func notFoundError(service string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Can not find status for %q", service)}
}
