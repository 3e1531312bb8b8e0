package simulate

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// Request is the normalized descriptor the pipeline inspects. The
// boundary layer fills it from the wire request before any handler runs.
type Request struct {
	Method      string
	Query       url.Values
	ContentType string
	Body        []byte
}

// Pipeline runs the fixed per-request preprocessing order:
//
//  1. error query parameter simulation
//  2. JSON body parse
//  3. body-embedded timeout directive (write methods only)
//
// Each stage either continues or aborts with an Outcome; once a stage
// aborts, no later stage and no CRUD handler runs.
type Pipeline struct {
	sim *Simulator
}

// NewPipeline creates a Pipeline backed by the given Simulator.
func NewPipeline(sim *Simulator) *Pipeline {
	if sim == nil {
		panic("simulate.NewPipeline: simulator must not be nil")
	}
	return &Pipeline{sim: sim}
}

// Run executes the pipeline. On abort it returns a non-nil Outcome and
// the parsed body is meaningless. On continue it returns the parsed
// JSON object body, or nil when the request carries no usable body;
// handlers treat a nil body as a validation failure where one is
// required.
func (p *Pipeline) Run(ctx context.Context, req *Request) (map[string]any, *Outcome) {
	if out := p.sim.CheckQuery(ctx, req.Query); out != nil {
		return nil, out
	}

	body := parseBody(req)

	if isWriteMethod(req.Method) {
		if out := p.sim.CheckBody(ctx, body); out != nil {
			return nil, out
		}
	}

	return body, nil
}

// parseBody decodes the request body into a generic JSON object.
// A missing body, a non-JSON declared content type, invalid JSON, or a
// JSON value that is not an object all yield nil rather than an error;
// malformed input must never crash the pipeline.
func parseBody(req *Request) map[string]any {
	if len(req.Body) == 0 {
		return nil
	}
	if !isJSONContentType(req.ContentType) {
		return nil
	}

	var body map[string]any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return nil
	}
	return body
}

// isJSONContentType accepts an absent declaration, application/json,
// and +json media type suffixes.
func isJSONContentType(ct string) bool {
	if ct == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// isWriteMethod reports whether the timeout directive applies: only
// create (POST) and replace (PUT) honor it.
func isWriteMethod(method string) bool {
	return method == http.MethodPost || method == http.MethodPut
}
