// Package api is the JSON surface the dashboard talks to. It maps
// 1:1 onto the rag.Service operations and serves a single shared
// session: the demo is one conversation at a time, and the handler's
// mutex is the discipline around the session's read-modify sequence.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/avellar/docask/internal/document"
	"github.com/avellar/docask/internal/rag"
	"github.com/avellar/docask/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Deps holds what the handlers need.
type Deps struct {
	Service *rag.Service
	Log     *storage.Store // optional; nil disables the interactions routes' content
	Token   string
}

type handler struct {
	deps Deps

	mu   sync.Mutex
	sess *rag.Session
}

// NewHandler builds the router: a public health check plus
// bearer-token-protected document, profile, ask, and interaction
// routes.
func NewHandler(deps Deps) http.Handler {
	h := &handler{deps: deps, sess: rag.NewSession()}

	r := chi.NewRouter()
	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Post("/ask", h.handleAsk)

		r.Get("/documents", h.handleListDocuments)
		r.Post("/documents", h.handleLoadDocument)
		r.Delete("/documents/{name}", h.handleRemoveDocument)
		r.Post("/documents/clear", h.handleClearDocuments)

		r.Get("/profiles", h.handleListProfiles)
		r.Put("/profiles/{id}", h.handleUpsertProfile)
		r.Get("/profiles/{id}", h.handleGetProfile)
		r.Delete("/profiles/{id}", h.handleDeleteProfile)

		r.Get("/interactions", h.handleListInteractions)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// --- ask ---

type askRequest struct {
	Question string `json:"question"`
	UserID   string `json:"user_id"`
}

type askResponse struct {
	Answer string `json:"answer"`
	Model  string `json:"model"`
}

func (h *handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Question == "" {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "question is required")
		return
	}

	h.mu.Lock()
	h.sess.UserID = req.UserID
	answer := h.deps.Service.Ask(r.Context(), h.sess, req.Question)
	h.mu.Unlock()

	writeJSON(w, askResponse{Answer: answer, Model: h.deps.Service.Model()})
}

// --- documents ---

type loadDocumentRequest struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	Name string `json:"name"`
	Text string `json:"text"`
}

func (h *handler) handleLoadDocument(w http.ResponseWriter, r *http.Request) {
	var req loadDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var (
		doc document.Document
		err error
	)

	h.mu.Lock()
	switch {
	case req.Path != "":
		doc, err = h.deps.Service.LoadPDF(h.sess, req.Path)
	case req.URL != "":
		doc, err = h.deps.Service.LoadURL(r.Context(), h.sess, req.URL)
	case req.Text != "":
		name := req.Name
		if name == "" {
			name = "inline"
		}
		doc = document.Document{Name: name, Text: req.Text, Pages: 1, CharCount: len(req.Text)}
		h.sess.Docs.Append(doc)
	default:
		h.mu.Unlock()
		httpError(w, http.StatusBadRequest, "invalid_request_error", "one of path, url, or text is required")
		return
	}
	h.mu.Unlock()

	if err != nil {
		httpError(w, http.StatusUnprocessableEntity, "invalid_request_error", "loading document: %v", err)
		return
	}
	writeJSON(w, doc)
}

func (h *handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	docs := h.sess.Docs.List()
	h.mu.Unlock()
	writeJSON(w, docs)
}

func (h *handler) handleRemoveDocument(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	h.mu.Lock()
	removed := h.deps.Service.RemoveDocument(h.sess, name)
	h.mu.Unlock()

	if !removed {
		httpError(w, http.StatusNotFound, "not_found", "no document named %q", name)
		return
	}
	writeJSON(w, map[string]string{"removed": name})
}

func (h *handler) handleClearDocuments(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.deps.Service.ClearDocuments(h.sess)
	h.mu.Unlock()
	writeJSON(w, map[string]string{"status": "cleared"})
}

// --- profiles ---

type upsertProfileRequest struct {
	Name        string   `json:"name"`
	Preferences []string `json:"preferences"`
	History     []string `json:"history"`
}

func (h *handler) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req upsertProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p := h.deps.Service.Profiles().Upsert(id, req.Name, req.Preferences, req.History)
	writeJSON(w, p)
}

func (h *handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := h.deps.Service.Profiles().Get(id)
	if !ok {
		httpError(w, http.StatusNotFound, "not_found", "no profile with id %q", id)
		return
	}
	writeJSON(w, p)
}

func (h *handler) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.deps.Service.Profiles().List())
}

func (h *handler) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.deps.Service.Profiles().Delete(id) {
		httpError(w, http.StatusNotFound, "not_found", "no profile with id %q", id)
		return
	}
	writeJSON(w, map[string]string{"deleted": id})
}

// --- interactions ---

func (h *handler) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	if h.deps.Log == nil {
		writeJSON(w, []storage.Interaction{})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	interactions, err := h.deps.Log.GetRecentInteractions(limit)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "api_error", "listing interactions: %v", err)
		return
	}
	if interactions == nil {
		interactions = []storage.Interaction{}
	}
	writeJSON(w, interactions)
}

// --- helpers ---

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
