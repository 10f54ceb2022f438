// Package chi serves the catalog resources over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nebula-labs/catalog/internal/domain"
	"github.com/nebula-labs/catalog/internal/domain/filter"
	logpkg "github.com/nebula-labs/catalog/internal/logger"
	healthuc "github.com/nebula-labs/catalog/internal/usecase/health"
	resourceuc "github.com/nebula-labs/catalog/internal/usecase/resource"
)

const (
	msgInternal         = "an internal server error occurred"
	msgRouteNotFound    = "route not found"
	msgMethodNotAllowed = "method not allowed"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes search and fetch for every registered resource kind.
type Server struct {
	resources      []*resourceuc.Service
	health         *healthuc.Service
	logger         *zap.Logger
	strictNotFound bool
	errorHandlers  []errorHandler
}

// Option configures a Server.
type Option func(*Server)

// WithStrictNotFound answers fetches of unknown ids with 404 instead of 200 null.
func WithStrictNotFound(strict bool) Option {
	return func(s *Server) { s.strictNotFound = strict }
}

// NewServer creates an HTTP API server over the given resource services.
func NewServer(
	resources []*resourceuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		resources: resources,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest),
		sentinelHandler(domain.ErrOperatorKey, http.StatusBadRequest),
		missingIDHandler,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes registers resource, health and metrics routes on r.
// Fallback handlers are set first so mounted subrouters inherit them.
func (s *Server) Routes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, msgRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	for _, svc := range s.resources {
		r.Route("/"+svc.Kind().String(), func(r chi.Router) {
			r.Get("/", s.searchHandler(svc))
			r.Get("/{id}", s.fetchHandler(svc))
		})
	}

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// searchHandler handles GET /{kind}?field=value.
func (s *Server) searchHandler(svc *resourceuc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := filter.Parse(r.URL.RawQuery)
		docs, err := svc.Search(r.Context(), f)
		if err != nil {
			s.handleDomainError(w, r, err, zap.Stringer("filter", f))
			return
		}
		writeJSON(w, http.StatusOK, docs)
	}
}

// fetchHandler handles GET /{kind}/{id}.
func (s *Server) fetchHandler(svc *resourceuc.Service) http.HandlerFunc {
	kind := svc.Kind().String()
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		if raw := escapedURLParam(r, "id"); raw != "" {
			err := runtime.BindStyledParameterWithOptions("simple", "id", raw, &id, runtime.BindStyledParameterOptions{
				ParamLocation: runtime.ParamLocationPath,
				Explode:       false,
				Required:      true,
			})
			if err != nil {
				logpkg.FromContext(r.Context(), s.logger).Warn("Invalid id parameter", zap.Error(err))
				writeError(w, http.StatusBadRequest, "request contained an invalid "+kind+" id")
				return
			}
		}

		doc, err := svc.Get(r.Context(), id)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			if s.strictNotFound {
				writeError(w, http.StatusNotFound, kind+" not found")
				return
			}
			writeJSON(w, http.StatusOK, nil)
		case err != nil:
			s.handleDomainError(w, r, err)
		default:
			writeJSON(w, http.StatusOK, doc)
		}
	}
}

// escapedURLParam returns a path parameter in its escaped form. chi matches on
// RawPath when the request has one and on the decoded Path otherwise, so only
// the latter is re-escaped before binding unescapes it.
func escapedURLParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return url.PathEscape(v)
	}
	return v
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

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error
// and reports the sentinel's own message.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, sentinel.Error())
		return true
	}
}

func missingIDHandler(w http.ResponseWriter, err error) bool {
	var mid *domain.MissingIDError
	if !errors.As(err, &mid) {
		return false
	}
	writeError(w, http.StatusBadRequest, mid.Error())
	return true
}

// handleDomainError maps err through the handler chain. Unmatched errors are
// logged in full and answered with a generic 500.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error, fields ...zap.Field) {
	log := logpkg.FromContext(r.Context(), s.logger).With(fields...)
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("Request rejected", zap.Error(err))
			return
		}
	}
	log.Error("Internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, msgInternal)
}
