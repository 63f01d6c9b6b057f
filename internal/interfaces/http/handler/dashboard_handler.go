package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/usecase"
	"github.com/dreschagin/ops-dashboard-simulator/internal/interfaces/http/middleware"
	"github.com/dreschagin/ops-dashboard-simulator/internal/interfaces/view"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

const dashboardCacheControl = "public, s-maxage=60, stale-while-revalidate=300"

// DashboardHandler обрабатывает запросы к dashboard
type DashboardHandler struct {
	getCurrentUC *usecase.GetCurrentSnapshotUseCase
	logger       *logger.Logger
}

// NewDashboardHandler создает новый handler
func NewDashboardHandler(
	getCurrentUC *usecase.GetCurrentSnapshotUseCase,
	logger *logger.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		getCurrentUC: getCurrentUC,
		logger:       logger,
	}
}

// GetDashboard отдает текущий snapshot целиком.
// ETag считается по телу ответа, совпадающий If-None-Match дает 304.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.getCurrentUC.Execute(r.Context())
	if err != nil {
		h.writeSnapshotError(w, err)
		return
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		h.logger.Error("Failed to encode snapshot", err)
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to encode dashboard")
		return
	}

	etag := `"` + strconv.FormatUint(xxh3.Hash(body), 16) + `"`
	w.Header().Set("Cache-Control", dashboardCacheControl)
	w.Header().Set("ETag", etag)

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// ShowDashboard отображает главную страницу dashboard
func (h *DashboardHandler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.getCurrentUC.Execute(r.Context())
	if err != nil && !errors.Is(err, usecase.ErrSnapshotNotLoaded) {
		h.logger.Error("Failed to get current snapshot", err)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	// До первой загрузки страница рендерится с заглушкой
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Dashboard(snapshot).Render(r.Context(), w); err != nil {
		h.logger.Error("Failed to render dashboard", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}

func (h *DashboardHandler) writeSnapshotError(w http.ResponseWriter, err error) {
	if errors.Is(err, usecase.ErrSnapshotNotLoaded) {
		middleware.WriteError(w, http.StatusServiceUnavailable, "Dashboard data is not loaded yet")
		return
	}
	h.logger.Error("Failed to get current snapshot", err)
	middleware.WriteError(w, http.StatusInternalServerError, "Failed to load dashboard")
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}
