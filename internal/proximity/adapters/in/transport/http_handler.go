package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jacantwell/kairos-backend/internal/proximity/application/ports/in"
	"github.com/jacantwell/kairos-backend/internal/proximity/domain"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
)

// HTTPHandler обрабатывает HTTP запросы для Proximity Service
type HTTPHandler struct {
	getNeighborsUC in.GetNeighborsUseCase
	log            *logger.Logger
}

// NewHTTPHandler создает новый HTTP handler
func NewHTTPHandler(getNeighborsUC in.GetNeighborsUseCase, log *logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		getNeighborsUC: getNeighborsUC,
		log:            log,
	}
}

// RegisterRoutes регистрирует все HTTP маршруты
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /journeys/{id}/neighbors", authMiddleware(h.handleGetNeighbors))
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","service":"proximity"}`))
}

// handleGetNeighbors обрабатывает GET /journeys/{id}/neighbors?radius_m=&limit=
func (h *HTTPHandler) handleGetNeighbors(w http.ResponseWriter, r *http.Request) {
	input := in.GetNeighborsInput{
		CallerID:  CallerID(r),
		JourneyID: r.PathValue("id"),
	}

	query := r.URL.Query()
	if radiusStr := query.Get("radius_m"); radiusStr != "" {
		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius <= 0 {
			h.respondError(w, http.StatusBadRequest, "radius_m must be a positive number")
			return
		}
		input.RadiusMeters = radius
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			h.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		input.Limit = limit
	}

	output, err := h.getNeighborsUC.Execute(r.Context(), input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

// handleUseCaseError обрабатывает ошибки use case
func (h *HTTPHandler) handleUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrJourneyNotFound):
		h.respondError(w, http.StatusNotFound, "journey not found")
	case errors.Is(err, domain.ErrNotOwner):
		h.respondError(w, http.StatusForbidden, "journey belongs to another user")
	case errors.Is(err, domain.ErrNoCurrentPosition):
		h.respondError(w, http.StatusConflict, "journey has no current position")
	default:
		h.log.Error(logger.Entry{
			Action:  "proximity_usecase_error",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondJSON отправляет JSON ответ
func (h *HTTPHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error(logger.Entry{
			Action:  "encode_response_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
}

// respondError отправляет JSON с ошибкой
func (h *HTTPHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
