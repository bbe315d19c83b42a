package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/markdave123-py/bharathi/internal/core/ingestion_engine"
	"github.com/markdave123-py/bharathi/internal/services"
)

// IngestRunner is the part of services.IngestService the handler needs.
type IngestRunner interface {
	Ingest(ctx context.Context, companyID string, replace *bool) (*ingestion_engine.IngestReport, error)
	Enqueue(job services.IngestJob) error
}

type IngestHandler struct {
	svc IngestRunner
	log *zap.Logger
}

func NewIngestHandler(svc IngestRunner, log *zap.Logger) *IngestHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &IngestHandler{svc: svc, log: log.Named("ingest_handler")}
}

type IngestRequest struct {
	CompanyID string `json:"company_id"`
	Replace   *bool  `json:"replace,omitempty"`
}

type IngestResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Rows      int    `json:"rows,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

// Ingest runs one ingestion and answers once the rows are stored.
func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	report, err := h.svc.Ingest(r.Context(), req.CompanyID, req.Replace)
	if err != nil {
		status := http.StatusInternalServerError
		if ingestion_engine.IsNotFound(err) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, IngestResponse{
			Status:    "error",
			Message:   err.Error(),
			CompanyID: req.CompanyID,
			Kind:      ingestion_engine.KindOf(err).String(),
		})
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		Status:  "ok",
		Message: "Stored successfully",
		Rows:    report.Rows,
	})
}

// IngestAsync queues the company and returns immediately.
func (h *IngestHandler) IngestAsync(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	if err := h.svc.Enqueue(services.IngestJob{CompanyID: req.CompanyID, Replace: req.Replace}); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrQueueFull) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, IngestResponse{Status: "error", Message: err.Error(), CompanyID: req.CompanyID})
		return
	}

	writeJSON(w, http.StatusAccepted, IngestResponse{Status: "queued", Message: "Ingestion scheduled", CompanyID: req.CompanyID})
}

func (h *IngestHandler) decode(w http.ResponseWriter, r *http.Request) (IngestRequest, bool) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, IngestResponse{Status: "error", Message: "invalid request body"})
		return req, false
	}
	req.CompanyID = strings.TrimSpace(req.CompanyID)
	if req.CompanyID == "" {
		writeJSON(w, http.StatusBadRequest, IngestResponse{Status: "error", Message: "company_id is required"})
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
