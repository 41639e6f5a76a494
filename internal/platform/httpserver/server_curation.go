package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	curationerrors "refinery/contexts/data-refinery/curation-service/domain/errors"
	curationhttp "refinery/contexts/data-refinery/curation-service/transport/http"
)

func (s *Server) registerCurationRoutes() {
	s.mux.HandleFunc("POST /refinery/packages", s.handleCreatePackage)
	s.mux.HandleFunc("GET /refinery/packages/{package_id}", s.handleGetPackage)
	s.mux.HandleFunc("GET /refinery/packages/{package_id}/export", s.handleExportPackage)
	s.mux.HandleFunc("PUT /refinery/packages/{package_id}/sale-readiness", s.handleSetSaleReadiness)
	s.mux.HandleFunc("GET /refinery/datasets/{dataset_id}/packages", s.handleListPackages)
}

func (s *Server) handleCreatePackage(w http.ResponseWriter, r *http.Request) {
	var req curationhttp.CreatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCurationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.curation.Handler.CreatePackageHandler(r.Context(), req)
	if err != nil {
		writeCurationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	packageID := r.PathValue("package_id")
	resp, err := s.curation.Handler.GetPackageHandler(r.Context(), packageID)
	if err != nil {
		writeCurationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExportPackage(w http.ResponseWriter, r *http.Request) {
	packageID := r.PathValue("package_id")
	resp, err := s.curation.Handler.ExportPackageHandler(r.Context(), packageID)
	if err != nil {
		writeCurationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetSaleReadiness(w http.ResponseWriter, r *http.Request) {
	var req curationhttp.SetSaleReadinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeCurationError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	packageID := r.PathValue("package_id")
	resp, err := s.curation.Handler.SetSaleReadinessHandler(r.Context(), packageID, req)
	if err != nil {
		writeCurationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	datasetID := r.PathValue("dataset_id")
	resp, err := s.curation.Handler.ListPackagesHandler(r.Context(), datasetID)
	if err != nil {
		writeCurationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCurationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, curationerrors.ErrPackageNotFound):
		writeCurationError(w, http.StatusNotFound, "package_not_found", err.Error())
	case errors.Is(err, curationerrors.ErrDatasetNotFound):
		writeCurationError(w, http.StatusNotFound, "dataset_not_found", err.Error())
	case errors.Is(err, curationerrors.ErrInvalidPackageRequest):
		writeCurationError(w, http.StatusBadRequest, "invalid_package_request", err.Error())
	case errors.Is(err, curationerrors.ErrInvalidPrice):
		writeCurationError(w, http.StatusBadRequest, "invalid_price", err.Error())
	case errors.Is(err, curationerrors.ErrDatasetNotRefined):
		writeCurationError(w, http.StatusConflict, "dataset_not_refined", err.Error())
	case errors.Is(err, curationerrors.ErrNoPassedItems):
		writeCurationError(w, http.StatusConflict, "no_passed_items", err.Error())
	case errors.Is(err, curationerrors.ErrDatasetUnavailable):
		writeCurationError(w, http.StatusGone, "dataset_unavailable", err.Error())
	case errors.Is(err, curationerrors.ErrPackageUnavailable):
		writeCurationError(w, http.StatusGone, "package_unavailable", err.Error())
	default:
		writeCurationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCurationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, curationhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
