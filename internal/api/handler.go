package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/riverwatch/riverwatch/internal/store"
)

// Handler is the HTTP handler for all /api/* endpoints. It reads snapshots
// from the store and returns JSON; the real-time channel is served
// separately at /ws.
type Handler struct {
	store        *store.Store
	defaultLimit int
	mux          *http.ServeMux
}

// New creates a Handler wired to the given store and registers all routes.
// defaultLimit bounds reading queries that carry no explicit limit.
func New(st *store.Store, defaultLimit int) http.Handler {
	if defaultLimit <= 0 {
		defaultLimit = store.DefaultReadingLimit
	}
	h := &Handler{store: st, defaultLimit: defaultLimit, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/sites", h.listSites)
	h.mux.HandleFunc("/api/sites/", h.siteSubtree) // {id}, {id}/readings, {id}/latest-reading, {id}/alerts
	h.mux.HandleFunc("/api/alerts", h.listAlerts)
	h.mux.HandleFunc("/api/alerts/", h.alertSubtree) // {id}/dismiss

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// listSites returns GET /api/sites: every monitoring site.
func (h *Handler) listSites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.store.ListSites())
}

// siteSubtree dispatches /api/sites/{id} and the per-site collections.
func (h *Handler) siteSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sites/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	if len(parts) == 0 || parts[0] == "" {
		h.listSites(w, r)
		return
	}
	id := parts[0]

	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	switch {
	case len(parts) == 1:
		h.getSite(w, id)
	case len(parts) == 2 && parts[1] == "readings":
		h.listReadings(w, r, id)
	case len(parts) == 2 && parts[1] == "latest-reading":
		h.latestReading(w, id)
	case len(parts) == 2 && parts[1] == "alerts":
		jsonResp(w, http.StatusOK, h.store.AlertsForSite(id))
	default:
		jsonErr(w, http.StatusNotFound, "not found")
	}
}

// getSite returns GET /api/sites/{id}: a single site.
func (h *Handler) getSite(w http.ResponseWriter, id string) {
	site, ok := h.store.GetSite(id)
	if !ok {
		jsonErr(w, http.StatusNotFound, "site not found")
		return
	}
	jsonResp(w, http.StatusOK, site)
}

// listReadings returns GET /api/sites/{id}/readings?limit=N: readings for
// a site, newest first. An unparsable or non-positive limit falls back to
// the default rather than failing the request.
func (h *Handler) listReadings(w http.ResponseWriter, r *http.Request, id string) {
	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	jsonResp(w, http.StatusOK, h.store.ListReadings(id, limit))
}

// latestReading returns GET /api/sites/{id}/latest-reading. When the site
// has no readings the body is JSON null, mirroring an absent value rather
// than an error.
func (h *Handler) latestReading(w http.ResponseWriter, id string) {
	reading, ok := h.store.LatestReading(id)
	if !ok {
		jsonResp(w, http.StatusOK, nil)
		return
	}
	jsonResp(w, http.StatusOK, reading)
}

// listAlerts returns GET /api/alerts: active alerts, highest priority first.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.store.ListActiveAlerts())
}

// alertSubtree dispatches POST /api/alerts/{id}/dismiss.
func (h *Handler) alertSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/alerts/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	if len(parts) != 2 || parts[1] != "dismiss" || parts[0] == "" {
		jsonErr(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Dismiss is idempotent; unknown ids succeed as a no-op.
	h.store.DismissAlert(parts[0])
	jsonResp(w, http.StatusOK, successResponse{Success: true})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
}
