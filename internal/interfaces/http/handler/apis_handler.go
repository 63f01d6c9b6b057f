package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dreschagin/ops-dashboard-simulator/internal/application/dto"
	"github.com/dreschagin/ops-dashboard-simulator/internal/application/usecase"
	"github.com/dreschagin/ops-dashboard-simulator/internal/domain/entity"
	"github.com/dreschagin/ops-dashboard-simulator/internal/interfaces/http/middleware"
	"github.com/dreschagin/ops-dashboard-simulator/pkg/logger"
)

// maxAPIBodyBytes ограничение тела запроса на запись в каталог
const maxAPIBodyBytes = 64 << 10

// APIsHandler обслуживает каталог API: чтение и редактирование
type APIsHandler struct {
	listUC   *usecase.ListAPIsUseCase
	getUC    *usecase.GetAPIUseCase
	createUC *usecase.CreateAPIUseCase
	updateUC *usecase.UpdateAPIUseCase
	deleteUC *usecase.DeleteAPIUseCase
	logger   *logger.Logger
}

// NewAPIsHandler создает новый handler
func NewAPIsHandler(
	listUC *usecase.ListAPIsUseCase,
	getUC *usecase.GetAPIUseCase,
	createUC *usecase.CreateAPIUseCase,
	updateUC *usecase.UpdateAPIUseCase,
	deleteUC *usecase.DeleteAPIUseCase,
	log *logger.Logger,
) *APIsHandler {
	return &APIsHandler{
		listUC:   listUC,
		getUC:    getUC,
		createUC: createUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		logger:   log,
	}
}

// ListAPIs GET /api/v1/apis
func (h *APIsHandler) ListAPIs(w http.ResponseWriter, r *http.Request) {
	page, err := h.listUC.Execute(r.Context(), parseAPIListQuery(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, page)
}

// GetAPI GET /api/v1/apis/{id}
func (h *APIsHandler) GetAPI(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		middleware.WriteError(w, http.StatusBadRequest, "API id is required")
		return
	}

	api, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"data": api})
}

// CreateAPI POST /api/v1/apis
func (h *APIsHandler) CreateAPI(w http.ResponseWriter, r *http.Request) {
	var req entity.APIEntry
	if !decodeBody(w, r, &req) {
		return
	}

	api, err := h.createUC.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, api)
}

// UpdateAPI PATCH /api/v1/apis/{id}
func (h *APIsHandler) UpdateAPI(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		middleware.WriteError(w, http.StatusBadRequest, "API id is required")
		return
	}

	var patch dto.APIPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	api, err := h.updateUC.Execute(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, api)
}

// DeleteAPI DELETE /api/v1/apis/{id}
func (h *APIsHandler) DeleteAPI(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		middleware.WriteError(w, http.StatusBadRequest, "API id is required")
		return
	}

	api, err := h.deleteUC.Execute(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, api)
}

// decodeBody пишет 400 и возвращает false, если тело не разобралось
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxAPIBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (h *APIsHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrAPINotFound):
		middleware.WriteError(w, http.StatusNotFound, "API not found")
	case errors.Is(err, usecase.ErrAPIAlreadyExists):
		middleware.WriteError(w, http.StatusConflict, "API already exists")
	case errors.Is(err, usecase.ErrInvalidAPI):
		middleware.WriteError(w, http.StatusBadRequest, strings.ReplaceAll(err.Error(), "\n", "; "))
	default:
		h.logger.Error("API catalog request failed", err)
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// parseAPIListQuery некорректные page и limit превращаются в значения по умолчанию внутри use case
func parseAPIListQuery(r *http.Request) dto.APIListQuery {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	return dto.APIListQuery{
		Page:             page,
		Limit:            limit,
		Name:             q.Get("name"),
		Version:          q.Get("version"),
		Method:           q.Get("method"),
		Path:             q.Get("path"),
		Status:           q.Get("status"),
		OwnerTeam:        q.Get("ownerTeam"),
		Requests:         q.Get("requests"),
		ErrorRatePercent: q.Get("errorRatePercent"),
		P95LatencyMs:     q.Get("p95LatencyMs"),
		SortBy:           q.Get("sortBy"),
		Desc:             strings.EqualFold(q.Get("order"), "desc"),
	}
}
