package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/leadsync/internal/usecase"
)

const maxSyncBodyBytes = 5 << 20

type LeadSyncer interface {
	Execute(ctx context.Context, input usecase.SyncLeadsInput) (*usecase.SyncLeadsOutput, error)
}

type SyncHandler struct {
	Syncer LeadSyncer
	Logger *zap.Logger
}

func NewSyncHandler(syncer LeadSyncer, logger *zap.Logger) *SyncHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncHandler{Syncer: syncer, Logger: logger}
}

type SyncResponse struct {
	Status            string `json:"status"`
	NewRecords        int    `json:"new_records"`
	IgnoredDuplicates int    `json:"ignored_duplicates"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Handle serves POST /sync. Per-lead failures never fail the request; the
// caller only sees the two totals.
func (h *SyncHandler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSyncBodyBytes)

	var input usecase.SyncLeadsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "BODY_TOO_LARGE"})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "INVALID_JSON", Message: err.Error()})
		return
	}

	output, err := h.Syncer.Execute(r.Context(), input)
	if err != nil {
		var de *usecase.DomainError
		if errors.As(err, &de) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: de.Code, Message: de.Message})
			return
		}
		h.Logger.Error("sync failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "INTERNAL_ERROR"})
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		Status:            "success",
		NewRecords:        output.NewRecords(),
		IgnoredDuplicates: output.Rejected,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
