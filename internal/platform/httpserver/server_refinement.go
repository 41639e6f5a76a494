package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	refinementerrors "refinery/contexts/data-refinery/refinement-service/domain/errors"
	refinementhttp "refinery/contexts/data-refinery/refinement-service/transport/http"
)

func (s *Server) registerRefinementRoutes() {
	s.mux.HandleFunc("POST /refinery/datasets", s.handleCreateDataset)
	s.mux.HandleFunc("GET /refinery/datasets", s.handleListDatasets)
	s.mux.HandleFunc("GET /refinery/datasets/{dataset_id}", s.handleGetDataset)
	s.mux.HandleFunc("POST /refinery/datasets/{dataset_id}/items", s.handleIngestItems)
	s.mux.HandleFunc("POST /refinery/datasets/{dataset_id}/refine", s.handleRefineDataset)
	s.mux.HandleFunc("GET /refinery/datasets/{dataset_id}/status", s.handleGetRefinementStatus)
	s.mux.HandleFunc("GET /refinery/datasets/{dataset_id}/metrics", s.handleExportMetrics)
	s.mux.HandleFunc("GET /refinery/datasets/{dataset_id}/ingestions", s.handleListIngestions)
	s.mux.HandleFunc("DELETE /refinery/datasets/{dataset_id}", s.handleDeleteDataset)
}

func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	var req refinementhttp.CreateDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRefinementError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.refinement.Handler.CreateDatasetHandler(r.Context(), req)
	if err != nil {
		writeRefinementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		writeRefinementError(w, http.StatusBadRequest, "missing_owner", "owner_id query parameter is required")
		return
	}

	resp, err := s.refinement.Handler.ListDatasetsHandler(r.Context(), ownerID)
	if err != nil {
		writeRefinementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	datasetID := r.PathValue("dataset_id")
	resp, err := s.refinement.Handler.GetDatasetHandler(r.Context(), datasetID)
	if err != nil {
		writeRefinementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIngestItems(w http.ResponseWriter, r *http.Request) {
	var req refinementhttp.IngestItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRefinementError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	datasetID := r.PathValue("dataset_id")
	resp, err := s.refinement.Handler.IngestItemsHandler(r.Context(), datasetID, req)
	if err != nil {
		writeRefinementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefineDataset(w http.ResponseWriter, r *http.Request) {
	var req refinementhttp.RefineDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRefinementError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	datasetID := r.PathValue("dataset_id")
	resp, err := s.refinement.Handler.RefineDatasetHandler(r.Context(), datasetID, req)
	if err != nil {
		writeRefinementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetRefinementStatus(w http.ResponseWriter, r *http.Request) {
	datasetID := r.PathValue("dataset_id")
	resp, err := s.refinement.Handler.GetRefinementStatusHandler(r.Context(), datasetID)
	if err != nil {
		writeRefinementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExportMetrics(w http.ResponseWriter, r *http.Request) {
	datasetID := r.PathValue("dataset_id")
	resp, err := s.refinement.Handler.ExportMetricsHandler(r.Context(), datasetID)
	if err != nil {
		writeRefinementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListIngestions(w http.ResponseWriter, r *http.Request) {
	datasetID := r.PathValue("dataset_id")
	resp, err := s.refinement.Handler.ListIngestionsHandler(r.Context(), datasetID)
	if err != nil {
		writeRefinementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	datasetID := r.PathValue("dataset_id")
	resp, err := s.refinement.Handler.DeleteDatasetHandler(r.Context(), datasetID)
	if err != nil {
		writeRefinementDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRefinementDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, refinementerrors.ErrDatasetNotFound):
		writeRefinementError(w, http.StatusNotFound, "dataset_not_found", err.Error())
	case errors.Is(err, refinementerrors.ErrNoRefinementRecord):
		writeRefinementError(w, http.StatusNotFound, "no_refinement_record", err.Error())
	case errors.Is(err, refinementerrors.ErrInvalidDatasetRequest):
		writeRefinementError(w, http.StatusBadRequest, "invalid_dataset_request", err.Error())
	case errors.Is(err, refinementerrors.ErrInvalidThreshold):
		writeRefinementError(w, http.StatusBadRequest, "invalid_threshold", err.Error())
	case errors.Is(err, refinementerrors.ErrStageConflict):
		writeRefinementError(w, http.StatusConflict, "stage_conflict", err.Error())
	case errors.Is(err, refinementerrors.ErrRefinementInFlight):
		writeRefinementError(w, http.StatusConflict, "refinement_in_flight", err.Error())
	case errors.Is(err, refinementerrors.ErrDatasetTombstoned):
		writeRefinementError(w, http.StatusGone, "dataset_tombstoned", err.Error())
	case errors.Is(err, refinementerrors.ErrAllItemsFailed):
		writeRefinementError(w, http.StatusUnprocessableEntity, "all_items_failed", err.Error())
	case errors.Is(err, refinementerrors.ErrPipelineFailed):
		writeRefinementError(w, http.StatusUnprocessableEntity, "pipeline_failed", err.Error())
	default:
		writeRefinementError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRefinementError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, refinementhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
