package simulate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Default suspension applied to error=timeout requests, and the default
// scale of body-directive timeout values.
const (
	DefaultDelay = 10 * time.Second
	DefaultUnit  = time.Second
)

// Outcome is an abort decision produced by the simulator: the response
// status and a human-readable message. A nil *Outcome means continue.
type Outcome struct {
	Status  int
	Message string
}

// Simulator decides, from a request's query parameters or parsed body,
// whether the request should be aborted with a simulated failure.
// It never touches the store; all checks run before any store access.
type Simulator struct {
	delay time.Duration
	unit  time.Duration
}

// New creates a Simulator. delay is the suspension for error=timeout
// requests; unit scales the integer values of body timeout directives.
// Non-positive values fall back to the defaults.
func New(delay, unit time.Duration) *Simulator {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if unit <= 0 {
		unit = DefaultUnit
	}
	return &Simulator{delay: delay, unit: unit}
}

// reasonPhrases maps simulated status codes to their canonical phrases.
var reasonPhrases = map[int]string{
	http.StatusBadRequest:           "Bad Request",
	http.StatusUnauthorized:         "Unauthorized",
	http.StatusForbidden:            "Forbidden",
	http.StatusNotFound:             "Not Found",
	http.StatusGone:                 "Gone",
	http.StatusUnsupportedMediaType: "Unsupported Media Type",
	http.StatusUnprocessableEntity:  "Unprocessable Entity",
	http.StatusInternalServerError:  "Internal Server Error",
	http.StatusBadGateway:           "Bad Gateway",
	http.StatusServiceUnavailable:   "Service Unavailable",
	http.StatusGatewayTimeout:       "Gateway Timeout",
}

// phrase returns the canonical reason phrase for a simulated status,
// or "Unknown Error" for codes outside the table.
func phrase(code int) string {
	if p, ok := reasonPhrases[code]; ok {
		return p
	}
	return "Unknown Error"
}

// CheckQuery inspects the error query parameter and decides whether to
// abort the request. It runs strictly before body parsing and any CRUD
// handler:
//
//   - error=timeout suspends for the configured delay, then aborts 504.
//   - an integer error in 100-999 aborts immediately with that exact
//     status and its canonical phrase.
//   - any other non-empty value, including integers no HTTP status
//     line can carry, aborts 400 with priority over all later
//     validation.
func (s *Simulator) CheckQuery(ctx context.Context, q url.Values) *Outcome {
	raw := q.Get("error")
	if raw == "" {
		return nil
	}

	if raw == "timeout" {
		s.sleep(ctx, s.delay)
		return &Outcome{
			Status:  http.StatusGatewayTimeout,
			Message: "Timeout: Request took too long",
		}
	}

	code, err := strconv.Atoi(raw)
	if err != nil {
		return &Outcome{
			Status:  http.StatusBadRequest,
			Message: `invalid error parameter: must be an integer or "timeout"`,
		}
	}
	// Codes outside 100-999 cannot be written on an HTTP response line.
	if code < 100 || code > 999 {
		return &Outcome{
			Status:  http.StatusBadRequest,
			Message: "invalid error parameter: status code must be between 100 and 999",
		}
	}

	return &Outcome{
		Status:  code,
		Message: fmt.Sprintf("%d %s", code, phrase(code)),
	}
}

// sleep suspends the calling request without holding any lock,
// returning early if the request context is cancelled.
func (s *Simulator) sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
