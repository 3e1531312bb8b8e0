package simulate

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"
)

// CheckBody inspects a parsed write body for the timeout control
// directive:
//
//	{"description": "timeout", "control": {"timeout": N}}
//
// When the directive fires, the control key is stripped from body (it
// must never be persisted as payload data), the request suspends for N
// time units, and the request aborts 504 with the elapsed duration in
// the message. A control.timeout that is present but not an integer
// aborts 400. Bodies without the directive pass through untouched.
func (s *Simulator) CheckBody(ctx context.Context, body map[string]any) *Outcome {
	if body == nil {
		return nil
	}

	desc, ok := body["description"].(string)
	if !ok || desc != "timeout" {
		return nil
	}

	control, ok := body["control"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := control["timeout"]
	if !ok {
		return nil
	}

	n, ok := asInt(raw)
	if !ok {
		return &Outcome{
			Status:  http.StatusBadRequest,
			Message: "invalid control.timeout: must be an integer",
		}
	}

	delete(body, "control")

	start := time.Now()
	s.sleep(ctx, time.Duration(n)*s.unit)
	elapsed := time.Since(start).Round(time.Millisecond)

	return &Outcome{
		Status:  http.StatusGatewayTimeout,
		Message: fmt.Sprintf("Timeout: Request took too long (%s elapsed)", elapsed),
	}
}

// asInt reports whether a decoded JSON value is an integer.
// encoding/json decodes numbers as float64, so integral floats count.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
		return 0, false
	case int:
		return n, true
	}
	return 0, false
}
