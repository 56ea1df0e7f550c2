package rest

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/igodwin/campaign-mailer/internal/domain"
)

// Handler handles REST API requests
type Handler struct {
	service domain.PublishService
}

// NewHandler creates a new REST handler
func NewHandler(service domain.PublishService) *Handler {
	return &Handler{
		service: service,
	}
}

// PublishReport handles POST /api/v1/campaigns/{key}/reports
func (h *Handler) PublishReport(w http.ResponseWriter, r *http.Request) {
	campaignKey := strings.TrimSpace(mux.Vars(r)["key"])
	if campaignKey == "" {
		respondError(w, http.StatusBadRequest, "campaign key is required", nil)
		return
	}

	var req CampaignReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	ack, err := h.service.Publish(r.Context(), campaignKey, req.ToReport(campaignKey))
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "failed to accept report", err)
		return
	}

	respondJSON(w, http.StatusAccepted, PublishReportResponseFromDomain(ack))
}

// GetStats handles GET /api/v1/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get stats", err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// ListPublishers handles GET /api/v1/publishers
func (h *Handler) ListPublishers(w http.ResponseWriter, r *http.Request) {
	publishers := h.service.Publishers()

	respondJSON(w, http.StatusOK, ListPublishersResponse{
		Publishers: publishers,
		Total:      len(publishers),
	})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.service.HealthCheck(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"service": "campaign-mailer",
			"error":   err.Error(),
			"time":    time.Now().UTC(),
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "campaign-mailer",
		"time":    time.Now().UTC(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	errMsg := message
	if err != nil {
		errMsg = message + ": " + err.Error()
	}

	respondJSON(w, status, map[string]interface{}{
		"error":   message,
		"details": errMsg,
	})
}
