package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/jacantwell/kairos-backend/internal/journey/application/ports/in"
	"github.com/jacantwell/kairos-backend/internal/journey/domain"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
)

const maxBodySize = 1 << 20 // 1MB

// HTTPHandler обрабатывает HTTP запросы для Journey Service
type HTTPHandler struct {
	createJourneyUC in.CreateJourneyUseCase
	getJourneyUC    in.GetJourneyUseCase
	listJourneysUC  in.ListJourneysUseCase
	setActiveUC     in.SetActiveJourneyUseCase
	completeUC      in.CompleteJourneyUseCase
	deleteJourneyUC in.DeleteJourneyUseCase
	appendPlanUC    in.AppendPlanMarkerUseCase
	appendJourneyUC in.AppendJourneyMarkerUseCase
	insertJourneyUC in.InsertJourneyMarkerUseCase
	convertPlanUC   in.ConvertNextPlanUseCase
	getMarkersUC    in.GetMarkersUseCase
	log             *logger.Logger
}

// NewHTTPHandler создает новый HTTP handler
func NewHTTPHandler(
	createJourneyUC in.CreateJourneyUseCase,
	getJourneyUC in.GetJourneyUseCase,
	listJourneysUC in.ListJourneysUseCase,
	setActiveUC in.SetActiveJourneyUseCase,
	completeUC in.CompleteJourneyUseCase,
	deleteJourneyUC in.DeleteJourneyUseCase,
	appendPlanUC in.AppendPlanMarkerUseCase,
	appendJourneyUC in.AppendJourneyMarkerUseCase,
	insertJourneyUC in.InsertJourneyMarkerUseCase,
	convertPlanUC in.ConvertNextPlanUseCase,
	getMarkersUC in.GetMarkersUseCase,
	log *logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		createJourneyUC: createJourneyUC,
		getJourneyUC:    getJourneyUC,
		listJourneysUC:  listJourneysUC,
		setActiveUC:     setActiveUC,
		completeUC:      completeUC,
		deleteJourneyUC: deleteJourneyUC,
		appendPlanUC:    appendPlanUC,
		appendJourneyUC: appendJourneyUC,
		insertJourneyUC: insertJourneyUC,
		convertPlanUC:   convertPlanUC,
		getMarkersUC:    getMarkersUC,
		log:             log,
	}
}

// RegisterRoutes регистрирует все HTTP маршруты
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	// liveness probe (без аутентификации)
	mux.HandleFunc("GET /health", h.handleHealth)

	mux.HandleFunc("POST /journeys", authMiddleware(h.handleCreateJourney))
	mux.HandleFunc("GET /journeys", authMiddleware(h.handleListJourneys))
	mux.HandleFunc("GET /journeys/{id}", authMiddleware(h.handleGetJourney))
	mux.HandleFunc("DELETE /journeys/{id}", authMiddleware(h.handleDeleteJourney))
	mux.HandleFunc("POST /journeys/{id}/activate", authMiddleware(h.handleActivateJourney))
	mux.HandleFunc("POST /journeys/{id}/complete", authMiddleware(h.handleCompleteJourney))

	mux.HandleFunc("GET /journeys/{id}/markers", authMiddleware(h.handleGetMarkers))
	mux.HandleFunc("POST /journeys/{id}/markers/plan", authMiddleware(h.handleAppendPlanMarker))
	mux.HandleFunc("POST /journeys/{id}/markers/journey", authMiddleware(h.handleAppendJourneyMarker))
	mux.HandleFunc("POST /journeys/{id}/markers/journey/insert", authMiddleware(h.handleInsertJourneyMarker))
	mux.HandleFunc("POST /journeys/{id}/markers/convert-next", authMiddleware(h.handleConvertNextPlan))
}

// handleHealth обрабатывает health check
func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok","service":"journey"}`))
}

// CreateJourneyHTTPRequest — HTTP DTO для создания journey
type CreateJourneyHTTPRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// handleCreateJourney обрабатывает POST /journeys
func (h *HTTPHandler) handleCreateJourney(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateJourneyHTTPRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if req.Name == "" {
		h.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	input := in.CreateJourneyInput{
		OwnerID:     CallerID(r),
		Name:        req.Name,
		Description: req.Description,
	}

	output, err := h.createJourneyUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, output)
}

// handleGetJourney обрабатывает GET /journeys/{id}
func (h *HTTPHandler) handleGetJourney(w http.ResponseWriter, r *http.Request) {
	journey, err := h.getJourneyUC.Execute(r.Context(), CallerID(r), r.PathValue("id"))
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"journey": journey})
}

// handleListJourneys обрабатывает GET /journeys
func (h *HTTPHandler) handleListJourneys(w http.ResponseWriter, r *http.Request) {
	journeys, err := h.listJourneysUC.Execute(r.Context(), CallerID(r))
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"journeys": journeys})
}

// handleActivateJourney обрабатывает POST /journeys/{id}/activate
func (h *HTTPHandler) handleActivateJourney(w http.ResponseWriter, r *http.Request) {
	if err := h.setActiveUC.Execute(r.Context(), CallerID(r), r.PathValue("id")); err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "active"})
}

// handleCompleteJourney обрабатывает POST /journeys/{id}/complete
func (h *HTTPHandler) handleCompleteJourney(w http.ResponseWriter, r *http.Request) {
	if err := h.completeUC.Execute(r.Context(), CallerID(r), r.PathValue("id")); err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// handleDeleteJourney обрабатывает DELETE /journeys/{id}
func (h *HTTPHandler) handleDeleteJourney(w http.ResponseWriter, r *http.Request) {
	if err := h.deleteJourneyUC.Execute(r.Context(), CallerID(r), r.PathValue("id")); err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AppendMarkerHTTPRequest — HTTP DTO для добавления маркера
type AppendMarkerHTTPRequest struct {
	Longitude   *float64 `json:"longitude"`
	Latitude    *float64 `json:"latitude"`
	Name        string   `json:"name,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	HappenedAt  *string  `json:"happened_at,omitempty"`
	EstimatedAt *string  `json:"estimated_at,omitempty"`
}

func (h *HTTPHandler) decodeMarkerRequest(w http.ResponseWriter, r *http.Request) (in.AppendMarkerInput, bool) {
	var req AppendMarkerHTTPRequest
	if !h.decodeBody(w, r, &req) {
		return in.AppendMarkerInput{}, false
	}

	if req.Longitude == nil || req.Latitude == nil {
		h.respondError(w, http.StatusBadRequest, "longitude and latitude are required")
		return in.AppendMarkerInput{}, false
	}

	input := in.AppendMarkerInput{
		CallerID:  CallerID(r),
		JourneyID: r.PathValue("id"),
		Longitude: *req.Longitude,
		Latitude:  *req.Latitude,
		Name:      req.Name,
		Notes:     req.Notes,
	}

	if req.HappenedAt != nil {
		t, err := parseTimestamp(*req.HappenedAt)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid happened_at format, expected RFC3339")
			return in.AppendMarkerInput{}, false
		}
		input.HappenedAt = &t
	}
	if req.EstimatedAt != nil {
		t, err := parseTimestamp(*req.EstimatedAt)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "invalid estimated_at format, expected RFC3339")
			return in.AppendMarkerInput{}, false
		}
		input.EstimatedAt = &t
	}

	return input, true
}

// handleAppendPlanMarker обрабатывает POST /journeys/{id}/markers/plan
func (h *HTTPHandler) handleAppendPlanMarker(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeMarkerRequest(w, r)
	if !ok {
		return
	}

	output, err := h.appendPlanUC.Execute(r.Context(), input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, output)
}

// handleAppendJourneyMarker обрабатывает POST /journeys/{id}/markers/journey
func (h *HTTPHandler) handleAppendJourneyMarker(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeMarkerRequest(w, r)
	if !ok {
		return
	}

	output, err := h.appendJourneyUC.Execute(r.Context(), input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, output)
}

// handleInsertJourneyMarker обрабатывает POST /journeys/{id}/markers/journey/insert
func (h *HTTPHandler) handleInsertJourneyMarker(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeMarkerRequest(w, r)
	if !ok {
		return
	}

	output, err := h.insertJourneyUC.Execute(r.Context(), input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, output)
}

// ConvertNextPlanHTTPRequest — HTTP DTO для подтверждения waypoint
type ConvertNextPlanHTTPRequest struct {
	HappenedAt *string `json:"happened_at,omitempty"`
}

// handleConvertNextPlan обрабатывает POST /journeys/{id}/markers/convert-next
func (h *HTTPHandler) handleConvertNextPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	input := in.ConvertNextPlanInput{
		CallerID:  CallerID(r),
		JourneyID: r.PathValue("id"),
	}

	// Тело опционально
	if r.ContentLength != 0 {
		var req ConvertNextPlanHTTPRequest
		if !h.decodeBody(w, r, &req) {
			return
		}
		if req.HappenedAt != nil {
			t, err := parseTimestamp(*req.HappenedAt)
			if err != nil {
				h.respondError(w, http.StatusBadRequest, "invalid happened_at format, expected RFC3339")
				return
			}
			input.HappenedAt = &t
		}
	}

	output, err := h.convertPlanUC.Execute(ctx, input)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, output)
}

// handleGetMarkers обрабатывает GET /journeys/{id}/markers
// Поддерживает ?format=geojson
func (h *HTTPHandler) handleGetMarkers(w http.ResponseWriter, r *http.Request) {
	markers, err := h.getMarkersUC.Execute(r.Context(), CallerID(r), r.PathValue("id"))
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "geojson" {
		h.respondJSON(w, http.StatusOK, markersToFeatureCollection(markers))
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{"markers": markers})
}

// decodeBody парсит JSON тело запроса с ограничением размера
func (h *HTTPHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			h.respondError(w, http.StatusBadRequest, "empty request body")
			return false
		}
		h.log.Error(logger.Entry{
			Action:  "parse_request_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		h.respondError(w, http.StatusBadRequest, "invalid request format")
		return false
	}

	return true
}

// handleUseCaseError обрабатывает ошибки use case
func (h *HTTPHandler) handleUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate):
		h.respondError(w, http.StatusBadRequest, "coordinate out of range")
	case errors.Is(err, domain.ErrNotOwner):
		h.respondError(w, http.StatusForbidden, "journey belongs to another user")
	case errors.Is(err, domain.ErrJourneyNotFound):
		h.respondError(w, http.StatusNotFound, "journey not found")
	case errors.Is(err, domain.ErrMarkerNotFound):
		h.respondError(w, http.StatusNotFound, "marker not found")
	case errors.Is(err, domain.ErrNoPendingPlanMarker):
		h.respondError(w, http.StatusConflict, "no pending plan marker")
	case errors.Is(err, domain.ErrSequenceConflict):
		h.respondError(w, http.StatusConflict, "concurrent sequence modification, retry")
	default:
		h.log.Error(logger.Entry{
			Action:  "journey_usecase_error",
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

// parseTimestamp парсит RFC3339 метку времени
func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// respondError отправляет JSON с ошибкой
func (h *HTTPHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
