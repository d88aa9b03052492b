package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"cinedex/internal/logging"
	"cinedex/internal/services"
)

const (
	msgNotFound         = "Movie not found"
	msgCatalogNotFound  = "Could not find movie on OMDB"
	msgInternal         = "Internal Server Error"
	msgMissingQuery     = "q: query parameter required"
	msgInvalidID        = "id: Invalid UUID format"
	msgRouteNotFound    = "Not Found"
	healthStatusHealthy = "ok"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/health", http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.logger, http.StatusOK, HealthStatus{
		Status: healthStatusHealthy,
		Uptime: time.Since(s.started).Seconds(),
	}, nil)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, s.logger, http.StatusNotFound, msgRouteNotFound)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.svc.GetAll(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, s.logger, http.StatusOK, records, newMeta(time.Now()).withTotal(len(records)))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, ok := s.requireQuery(w, r)
	if !ok {
		return
	}
	records, err := s.svc.Search(r.Context(), q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, s.logger, http.StatusOK, records, newMeta(time.Now()).withTotal(len(records)))
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	q, ok := s.requireQuery(w, r)
	if !ok {
		return
	}
	results, err := s.svc.Lookup(r.Context(), q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, s.logger, http.StatusOK, results, newMeta(time.Now()).withTotal(len(results)))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r)
	if !ok {
		return
	}
	rec, err := s.svc.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if rec == nil {
		writeError(w, s.logger, http.StatusNotFound, msgNotFound)
		return
	}
	writeSuccess(w, s.logger, http.StatusOK, rec, nil)
}

func (s *Server) handleAddExternal(w http.ResponseWriter, r *http.Request) {
	var req AddExternalRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	req.IMDBID = strings.TrimSpace(req.IMDBID)
	if err := req.validate(); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	rec, err := s.svc.AddFromExternal(r.Context(), req.IMDBID, req.userMeta())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if rec == nil {
		writeError(w, s.logger, http.StatusNotFound, msgCatalogNotFound)
		return
	}
	writeSuccess(w, s.logger, http.StatusCreated, rec, nil)
}

func (s *Server) handleAddManual(w http.ResponseWriter, r *http.Request) {
	var req MovieRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := req.validate(true); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	rec, err := s.svc.Add(r.Context(), req.draft())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, s.logger, http.StatusCreated, rec, nil)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r)
	if !ok {
		return
	}
	var req MovieRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := req.validate(false); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	rec, err := s.svc.Update(r.Context(), id, req.patch())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if rec == nil {
		writeError(w, s.logger, http.StatusNotFound, msgNotFound)
		return
	}
	writeSuccess(w, s.logger, http.StatusOK, rec, nil)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireID(w, r)
	if !ok {
		return
	}
	deleted, err := s.svc.Remove(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !deleted {
		writeError(w, s.logger, http.StatusNotFound, msgNotFound)
		return
	}
	writeSuccess(w, s.logger, http.StatusOK, DeleteResult{Deleted: true}, nil)
}

func (s *Server) requireQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, s.logger, http.StatusBadRequest, msgMissingQuery)
		return "", false
	}
	return q, true
}

func (s *Server) requireID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !validID(id) {
		writeError(w, s.logger, http.StatusBadRequest, msgInvalidID)
		return "", false
	}
	return id, true
}

// writeServiceError maps an error onto the response envelope. Validation
// failures are 400; catalog failures surface their message as a 500; anything
// else is logged and reported generically.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.WithContext(r.Context(), s.logger)
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, s.logger, http.StatusBadRequest, validationMessage(err))
	case services.IsExternal(err):
		logging.WarnWithContext(logger, "catalog request failed", "catalog_failure",
			logging.String("path", r.URL.Path),
			logging.String(logging.FieldErrorHint, "check omdb.api_key and catalog availability"),
			logging.Error(err))
		writeError(w, s.logger, http.StatusInternalServerError, err.Error())
	default:
		logging.ErrorWithContext(logger, "request failed", "api_error",
			logging.String("path", r.URL.Path),
			logging.Error(err))
		writeError(w, s.logger, http.StatusInternalServerError, msgInternal)
	}
}
