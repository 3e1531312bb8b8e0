package engine

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/stubapi/stubd/pkg/httputil"
	"github.com/stubapi/stubd/pkg/resource"
	"github.com/stubapi/stubd/pkg/simulate"
)

// MaxBodySize caps request bodies on resource routes.
const MaxBodySize = 1 << 20 // 1MB

// Handler serves the resource surface: collection listing at the root,
// collection routes at /{name}, and item routes at /{name}/{id}.
type Handler struct {
	store    *resource.Store
	pipeline *simulate.Pipeline
	log      *slog.Logger
}

// NewHandler builds a handler over the given store and simulation pipeline.
func NewHandler(store *resource.Store, pipeline *simulate.Pipeline, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: store, pipeline: pipeline, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name, id, ok := splitPath(r.URL.Path)
	if !ok {
		httputil.WriteNotFound(w, "not found")
		return
	}

	if name == "" {
		h.handleRoot(w, r)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		httputil.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	payload, outcome := h.pipeline.Run(r.Context(), &simulate.Request{
		Method:      r.Method,
		Query:       r.URL.Query(),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	if outcome != nil {
		httputil.WriteError(w, outcome.Status, outcome.Message)
		return
	}

	if id == "" {
		h.handleCollection(w, r, name, payload)
		return
	}
	h.handleItem(w, r, name, id, payload)
}

// handleRoot lists the known collection names.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteMethodNotAllowed(w, fmt.Sprintf("method %s not allowed", r.Method))
		return
	}
	httputil.WriteOK(w, h.store.Names())
}

func (h *Handler) handleCollection(w http.ResponseWriter, r *http.Request, name string, payload map[string]any) {
	switch r.Method {
	case http.MethodPost:
		if payload == nil {
			httputil.WriteBadRequest(w, "request body must be a non-empty JSON object")
			return
		}
		id, err := h.store.GetOrCreate(name).Create(payload)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		httputil.WriteCreated(w, resource.Item{ID: id, Payload: payload}.Merged())
	case http.MethodGet:
		// The query is validated before the store is touched so a bad
		// page parameter never creates the collection.
		page, limit, err := resource.ParsePageQuery(r.URL.Query())
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		items, meta := resource.Paginate(h.store.GetOrCreate(name).List(), page, limit)
		httputil.WriteOK(w, resource.NewPage(items, meta))
	default:
		httputil.WriteMethodNotAllowed(w, fmt.Sprintf("method %s not allowed", r.Method))
	}
}

func (h *Handler) handleItem(w http.ResponseWriter, r *http.Request, name, rawID string, payload map[string]any) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		// Non-integer ids fall outside the item route space.
		httputil.WriteNotFound(w, fmt.Sprintf("item %q not found in collection %q", rawID, name))
		return
	}
	col := h.store.GetOrCreate(name)

	switch r.Method {
	case http.MethodGet:
		item, err := col.Get(id)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		httputil.WriteOK(w, item.Merged())
	case http.MethodPut:
		if payload == nil {
			httputil.WriteBadRequest(w, "request body must be a non-empty JSON object")
			return
		}
		item, err := col.Replace(id, payload)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		httputil.WriteOK(w, item.Merged())
	case http.MethodPatch:
		if payload == nil {
			httputil.WriteBadRequest(w, "request body must be a non-empty JSON object")
			return
		}
		item, err := col.Patch(id, payload)
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		httputil.WriteOK(w, item.Merged())
	case http.MethodDelete:
		if err := col.Delete(id); err != nil {
			h.writeDomainError(w, err)
			return
		}
		httputil.WriteNoContent(w)
	default:
		httputil.WriteMethodNotAllowed(w, fmt.Sprintf("method %s not allowed", r.Method))
	}
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	if sc, ok := err.(resource.StatusCodeError); ok {
		httputil.WriteError(w, sc.StatusCode(), err.Error())
		return
	}
	h.log.Error("unexpected handler error", "error", err)
	httputil.WriteError(w, http.StatusInternalServerError, "internal server error")
}

// splitPath breaks a request path into at most two segments. ok is false
// when the path nests deeper than /{name}/{id}.
func splitPath(p string) (name, id string, ok bool) {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return "", "", true
	}
	parts := strings.Split(trimmed, "/")
	switch len(parts) {
	case 1:
		return parts[0], "", true
	case 2:
		return parts[0], parts[1], true
	}
	return "", "", false
}
