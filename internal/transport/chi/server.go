// Package chi exposes the search and catalog services over a hand-written
// chi JSON API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cecidology/cecidarium/internal/domain"
	"github.com/cecidology/cecidarium/internal/domain/facet"
	domgall "github.com/cecidology/cecidarium/internal/domain/gall"
	"github.com/cecidology/cecidarium/internal/domain/search/selector"
	cataloguc "github.com/cecidology/cecidarium/internal/usecase/catalog"
	healthuc "github.com/cecidology/cecidarium/internal/usecase/health"
	sessionuc "github.com/cecidology/cecidarium/internal/usecase/session"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the use case services to HTTP routes.
type Server struct {
	sessions      *sessionuc.Service
	catalog       *cataloguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	sessions *sessionuc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		sessions: sessions,
		catalog:  catalog,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound),
		sentinelHandler(domain.ErrGallNotFound, http.StatusNotFound, CodeGallNotFound),
		sentinelHandler(domain.ErrInvalidRootSelector, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidRecord, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrNoRootQuery, http.StatusConflict, CodeNoRootQuery),
		sentinelHandler(domain.ErrRootLookup, http.StatusBadGateway, CodeRootLookupFailed),
	}
	return s
}

// Mount registers all API routes on the router.
func (s *Server) Mount(r chirouter.Router) {
	r.Route("/api/v1", func(r chirouter.Router) {
		r.Route("/search/sessions", func(r chirouter.Router) {
			r.Post("/", s.StartSession)
			r.Route("/{session}", func(r chirouter.Router) {
				r.Get("/", s.GetSession)
				r.Delete("/", s.EndSession)
				r.Post("/root", s.ResubmitRoot)
				r.Post("/facets", s.EditFacet)
			})
		})
		r.Get("/facets", s.ListFacets)
		r.Route("/galls/{id}", func(r chirouter.Router) {
			r.Put("/", s.UpsertGall)
			r.Get("/", s.GetGall)
			r.Delete("/", s.DeleteGall)
		})
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// StartSession handles POST /api/v1/search/sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.decodeSelector(w, r)
	if !ok {
		return
	}

	snap, err := s.sessions.Start(r.Context(), sel)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionToWire(snap))
}

// ResubmitRoot handles POST /api/v1/search/sessions/{session}/root.
func (s *Server) ResubmitRoot(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.decodeSelector(w, r)
	if !ok {
		return
	}

	snap, err := s.sessions.SubmitRoot(r.Context(), chirouter.URLParam(r, "session"), sel)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToWire(snap))
}

// EditFacet handles POST /api/v1/search/sessions/{session}/facets.
func (s *Server) EditFacet(w http.ResponseWriter, r *http.Request) {
	var req FacetEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Field == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Facet field is required")
		return
	}

	snap, err := s.sessions.EditFacet(
		r.Context(), chirouter.URLParam(r, "session"), facet.Name(req.Field), req.Values,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionToWire(snap))
}

// GetSession handles GET /api/v1/search/sessions/{session}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sessions.Get(r.Context(), chirouter.URLParam(r, "session"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToWire(snap))
}

// EndSession handles DELETE /api/v1/search/sessions/{session}.
func (s *Server) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.End(r.Context(), chirouter.URLParam(r, "session")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFacets handles GET /api/v1/facets.
func (s *Server) ListFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := s.catalog.Facets(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]FacetResponse, len(facets))
	for i, f := range facets {
		items[i] = FacetResponse{
			Name:        string(f.Name),
			Label:       f.Label,
			Cardinality: string(f.Cardinality),
			Values:      f.Values,
		}
	}
	writeJSON(w, http.StatusOK, FacetListResponse{Facets: items})
}

// UpsertGall handles PUT /api/v1/galls/{id}.
func (s *Server) UpsertGall(w http.ResponseWriter, r *http.Request) {
	id, ok := s.gallID(w, r)
	if !ok {
		return
	}

	var req UpsertGallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	attrs := domgall.Attributes{
		Alignment: req.Alignment,
		Cells:     req.Cells,
		Color:     req.Color,
		Shape:     req.Shape,
		Walls:     req.Walls,
		Locations: req.Locations,
		Textures:  req.Textures,
	}
	if req.Detachable != nil {
		code := domgall.Detachability(*req.Detachable)
		attrs.Detachable = &code
	}

	g, created, err := s.catalog.Upsert(r.Context(), id, req.Name, req.Genus, req.Hosts, attrs, req.Description)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, gallToWire(&g))
}

// GetGall handles GET /api/v1/galls/{id}.
func (s *Server) GetGall(w http.ResponseWriter, r *http.Request) {
	id, ok := s.gallID(w, r)
	if !ok {
		return
	}

	g, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gallToWire(&g))
}

// DeleteGall handles DELETE /api/v1/galls/{id}.
func (s *Server) DeleteGall(w http.ResponseWriter, r *http.Request) {
	id, ok := s.gallID(w, r)
	if !ok {
		return
	}

	if err := s.catalog.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeSelector parses and validates the mutually exclusive host/genus pair.
func (s *Server) decodeSelector(w http.ResponseWriter, r *http.Request) (selector.Selector, bool) {
	var req RootRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return selector.Selector{}, false
	}

	sel, err := selector.New(req.Host, req.Genus)
	if err != nil {
		s.handleDomainError(w, err)
		return selector.Selector{}, false
	}
	return sel, true
}

func (s *Server) gallID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chirouter.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "Gall ID must be a positive integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrGallNotFound,
		domain.ErrInvalidRootSelector,
		domain.ErrInvalidRecord,
		domain.ErrNoRootQuery,
		domain.ErrRootLookup,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func sessionToWire(snap sessionuc.Snapshot) SessionResponse {
	query := make(map[string][]string)
	for _, field := range snap.Query.Fields() {
		query[string(field)] = snap.Query.Get(field)
	}

	galls := make([]GallResponse, len(snap.Displayed))
	for i := range snap.Displayed {
		galls[i] = gallToWire(&snap.Displayed[i])
	}

	return SessionResponse{
		SessionID: snap.ID,
		State:     string(snap.State),
		Query:     query,
		Galls:     galls,
		Total:     len(galls),
	}
}

func gallToWire(g *domgall.Gall) GallResponse {
	resp := GallResponse{
		ID:          g.ID(),
		Name:        g.Name(),
		Genus:       g.Genus(),
		Hosts:       g.Hosts(),
		Description: g.Description(),
		Locations:   g.Locations(),
		Textures:    g.Textures(),
	}
	resp.Alignment = optString(g.Alignment)
	resp.Cells = optString(g.Cells)
	resp.Color = optString(g.Color)
	resp.Shape = optString(g.Shape)
	resp.Walls = optString(g.Walls)
	resp.Detachable = optString(g.DetachableLabel)
	return resp
}

func optString(get func() (string, bool)) *string {
	if v, ok := get(); ok {
		return &v
	}
	return nil
}
