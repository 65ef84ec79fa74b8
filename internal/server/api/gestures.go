// Package api provides HTTP API handlers for handsign.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/internal/store"
)

// GestureHandler serves the registered gestures and the stored custom ones.
// Custom gestures saved here join the registry on the next start.
type GestureHandler struct {
	store    *store.Store
	registry *gesture.Registry
}

// NewGestureHandler creates a GestureHandler. A nil store serves the
// registry read-only; a nil registry means the built-ins.
func NewGestureHandler(s *store.Store, reg *gesture.Registry) *GestureHandler {
	if reg == nil {
		reg = gesture.DefaultRegistry()
	}
	return &GestureHandler{store: s, registry: reg}
}

// ServeHTTP routes /api/gestures and /api/gestures/{id}.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/gestures")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

type gestureResponse struct {
	ID         string             `json:"id,omitempty"`
	Name       string             `json:"name"`
	Builtin    bool               `json:"builtin"`
	Active     bool               `json:"active"`
	Definition gesture.Definition `json:"definition"`
	CreatedAt  string             `json:"created_at,omitempty"`
	UpdatedAt  string             `json:"updated_at,omitempty"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

func (h *GestureHandler) storedResponse(g *store.Gesture) gestureResponse {
	_, active := h.registry.Lookup(g.Name)
	return gestureResponse{
		ID:         g.ID,
		Name:       g.Name,
		Active:     active,
		Definition: g.Definition,
		CreatedAt:  g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  g.UpdatedAt.Format(time.RFC3339),
	}
}

func isBuiltin(name string) bool {
	for _, d := range gesture.Builtins() {
		if d.Name() == name {
			return true
		}
	}
	return false
}

// list handles GET /api/gestures: registered gestures in scoring order,
// then stored gestures that are not active yet.
func (h *GestureHandler) list(w http.ResponseWriter, r *http.Request) {
	var stored []*store.Gesture
	if h.store != nil {
		var err error
		stored, err = h.store.Gestures().List()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list gestures")
			return
		}
	}
	byName := make(map[string]*store.Gesture, len(stored))
	for _, g := range stored {
		byName[g.Name] = g
	}

	response := listGesturesResponse{Gestures: []gestureResponse{}}
	for _, d := range h.registry.Descriptors() {
		if g, ok := byName[d.Name()]; ok {
			response.Gestures = append(response.Gestures, h.storedResponse(g))
			delete(byName, d.Name())
			continue
		}
		response.Gestures = append(response.Gestures, gestureResponse{
			Name:       d.Name(),
			Builtin:    isBuiltin(d.Name()),
			Active:     true,
			Definition: d.Definition(),
		})
	}
	for _, g := range stored {
		if _, pending := byName[g.Name]; pending {
			response.Gestures = append(response.Gestures, h.storedResponse(g))
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *GestureHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "Gesture not found")
		return
	}
	g, err := h.store.Gestures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get gesture")
		return
	}
	writeJSON(w, http.StatusOK, h.storedResponse(g))
}

// checkDefinition returns a client-facing reason why def cannot be stored.
func checkDefinition(def gesture.Definition) string {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return "Name is required"
	}
	if isBuiltin(name) {
		return "Name is reserved by a built-in gesture"
	}
	d, err := def.Build()
	if err != nil {
		return err.Error()
	}
	if err := d.Validate(); err != nil {
		return err.Error()
	}
	return ""
}

// create handles POST /api/gestures with a gesture definition as body.
func (h *GestureHandler) create(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "No store configured")
		return
	}

	var def gesture.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if reason := checkDefinition(def); reason != "" {
		writeError(w, http.StatusBadRequest, reason)
		return
	}

	g := &store.Gesture{Name: strings.TrimSpace(def.Name), Definition: def}
	if err := h.store.Gestures().Create(g); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Gesture already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create gesture")
		return
	}

	writeJSON(w, http.StatusCreated, h.storedResponse(g))
}

// update handles PUT /api/gestures/{id}, replacing the definition.
func (h *GestureHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "Gesture not found")
		return
	}
	g, err := h.store.Gestures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get gesture")
		return
	}

	var def gesture.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if def.Name == "" {
		def.Name = g.Name
	}
	if reason := checkDefinition(def); reason != "" {
		writeError(w, http.StatusBadRequest, reason)
		return
	}

	g.Name = strings.TrimSpace(def.Name)
	g.Definition = def
	if err := h.store.Gestures().Update(g); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "Gesture already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update gesture")
		return
	}

	writeJSON(w, http.StatusOK, h.storedResponse(g))
}

func (h *GestureHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "Gesture not found")
		return
	}
	if err := h.store.Gestures().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete gesture")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
