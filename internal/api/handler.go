package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vestadash/vesta/internal/config"
	"github.com/vestadash/vesta/internal/dashboard"
	"github.com/vestadash/vesta/internal/metrics"
	"github.com/vestadash/vesta/internal/store"
	"github.com/vestadash/vesta/internal/widget"
)

// Handler is the HTTP handler for all /api/v1/* endpoints. It reads
// the dashboard snapshot from the store and proxies widget calls to
// their downstream services.
type Handler struct {
	store   *store.Store
	metrics *metrics.Metrics
	pinger  *widget.Pinger

	sonarrTimeout time.Duration

	mux *http.ServeMux
}

// New creates a Handler wired to the given store and registers all routes.
func New(st *store.Store, m *metrics.Metrics, widgets config.WidgetsConfig) http.Handler {
	h := &Handler{
		store:         st,
		metrics:       m,
		pinger:        widget.NewPinger(widgets.PingTimeout()),
		sonarrTimeout: widgets.SonarrTimeout(),
		mux:           http.NewServeMux(),
	}

	h.mux.HandleFunc("/api/v1/config", h.config)
	h.mux.HandleFunc("/api/v1/ping", h.ping)
	h.mux.HandleFunc("/api/v1/sonarr", h.sonarr)
	h.mux.HandleFunc("/api/v1/stats", h.stats)
	h.mux.HandleFunc("/api/v1/health", h.health)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// config returns GET /api/v1/config: the redacted dashboard document.
func (h *Handler) config(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap := h.store.Current()
	jsonResp(w, http.StatusOK, ConfigResponse{
		Groups:      dashboard.Redact(snap.Doc).Groups,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// ping returns GET /api/v1/ping?group=<g>&title=<t>: the status code
// of a liveness check against the service's ping widget URL.
func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	wd, ok := h.resolveWidget(w, r, dashboard.WidgetPing)
	if !ok {
		return
	}

	start := time.Now()
	status, err := h.pinger.Check(r.Context(), wd.URL)
	h.metrics.ObserveWidget(dashboard.WidgetPing, start, err)
	if err != nil {
		slog.Warn("api: ping check failed",
			"group", r.URL.Query().Get("group"),
			"title", r.URL.Query().Get("title"),
			"err", err,
		)
		jsonErr(w, http.StatusBadGateway, err.Error())
		return
	}

	jsonResp(w, http.StatusOK, PingResponse{StatusCode: status})
}

// sonarr returns GET /api/v1/sonarr?group=<g>&title=<t>: the upcoming
// calendar annotated with per-entry download flags.
func (h *Handler) sonarr(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	wd, ok := h.resolveWidget(w, r, dashboard.WidgetSonarr)
	if !ok {
		return
	}

	client := widget.NewSonarr(wd.URL, wd.Key, h.sonarrTimeout)

	start := time.Now()
	entries, err := client.Upcoming(r.Context())
	h.metrics.ObserveWidget(dashboard.WidgetSonarr, start, err)
	if err != nil {
		slog.Warn("api: sonarr fetch failed",
			"group", r.URL.Query().Get("group"),
			"title", r.URL.Query().Get("title"),
			"err", err,
		)
		jsonErr(w, http.StatusBadGateway, err.Error())
		return
	}

	jsonResp(w, http.StatusOK, entries)
}

// stats returns GET /api/v1/stats: document totals and snapshot identity.
func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap := h.store.Current()
	jsonResp(w, http.StatusOK, StatsResponse{
		Stats:      snap.Doc.Stats(),
		SnapshotID: snap.ID.String(),
		LoadedAt:   snap.LoadedAt.Format(time.RFC3339),
	})
}

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap := h.store.Current()
	jsonResp(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		SnapshotID: snap.ID.String(),
		LoadedAt:   snap.LoadedAt.Format(time.RFC3339),
	})
}

// --- helpers ----------------------------------------------------------------

// resolveWidget extracts the group/title query parameters and resolves
// the named service's widget against the current snapshot, requiring it
// to be of the given kind. On failure it writes the error response and
// returns ok=false.
func (h *Handler) resolveWidget(w http.ResponseWriter, r *http.Request, kind string) (*dashboard.Widget, bool) {
	group := r.URL.Query().Get("group")
	title := r.URL.Query().Get("title")
	if group == "" || title == "" {
		jsonErr(w, http.StatusBadRequest, "group and title query parameters are required")
		return nil, false
	}

	wd, err := h.store.Current().Doc.Widget(group, title)
	if err != nil {
		jsonErr(w, domainStatus(err), err.Error())
		return nil, false
	}
	if wd.Name != kind {
		jsonErr(w, http.StatusBadRequest,
			(&dashboard.WidgetNotConfiguredError{Group: group, Title: title}).Error())
		return nil, false
	}
	return wd, true
}

// domainStatus maps dashboard lookup errors to HTTP status codes.
func domainStatus(err error) int {
	var (
		gerr *dashboard.GroupNotFoundError
		serr *dashboard.ServiceNotFoundError
		werr *dashboard.WidgetNotConfiguredError
	)
	switch {
	case errors.As(err, &gerr), errors.As(err, &serr):
		return http.StatusNotFound
	case errors.As(err, &werr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
