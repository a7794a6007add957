package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sitesearch/internal/domain"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/domain/search/result"
	exportuc "github.com/kailas-cloud/sitesearch/internal/usecase/export"
	healthuc "github.com/kailas-cloud/sitesearch/internal/usecase/health"
	"github.com/kailas-cloud/sitesearch/internal/version"
)

const (
	maxBodyBytes = 1 << 20

	contentTypeNDJSON = "application/x-ndjson"
)

// Searcher runs paged searches and count-only searches.
type Searcher interface {
	Search(ctx context.Context, params request.Params) (result.Results, error)
	FieldCounts(ctx context.Context, params request.Params) (result.Results, error)
}

// Exporter validates and streams unbounded exports.
type Exporter interface {
	Prepare(ctx context.Context, params request.Params) (*exportuc.Export, error)
	Stream(ctx context.Context, exp *exportuc.Export, w io.Writer) (int64, error)
}

// MetadataReader renders the catalog.
type MetadataReader interface {
	Metadata(ctx context.Context, project string) (result.Catalog, error)
}

// Suggester returns typeahead suggestions.
type Suggester interface {
	Suggest(ctx context.Context, text string) ([]string, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the site search HTTP API.
type Server struct {
	search        Searcher
	export        Exporter
	catalog       MetadataReader
	suggest       Suggester
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search Searcher,
	export Exporter,
	catalog MetadataReader,
	suggest Suggester,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:  search,
		export:  export,
		catalog: catalog,
		suggest: suggest,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrCatalogInvalid, http.StatusInternalServerError, ErrorCodeCatalogInvalid),
		sentinelHandler(domain.ErrBackendIntegrity, http.StatusInternalServerError, ErrorCodeBackendError),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.SearchGet)
	r.Post("/", s.SearchPost)
	r.Post("/stream", s.Stream)
	r.Post("/field-counts", s.FieldCounts)
	r.Get("/categories-metadata", s.CategoriesMetadata)
	r.Get("/suggest", s.Suggest)
	r.Get("/build-status", s.BuildStatus)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchGet handles GET /.
func (s *Server) SearchGet(w http.ResponseWriter, r *http.Request) {
	params, err := searchParamsFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	s.runSearch(w, r, params)
}

// SearchPost handles POST /. Clients accepting application/x-ndjson get a stream.
func (s *Server) SearchPost(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeParams(w, r)
	if !ok {
		return
	}
	if strings.Contains(r.Header.Get("Accept"), contentTypeNDJSON) {
		s.runStream(w, r, params, contentTypeNDJSON)
		return
	}
	s.runSearch(w, r, params)
}

// Stream handles POST /stream.
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeParams(w, r)
	if !ok {
		return
	}
	s.runStream(w, r, params, "text/plain; charset=utf-8")
}

// FieldCounts handles POST /field-counts.
func (s *Server) FieldCounts(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeParams(w, r)
	if !ok {
		return
	}
	res, err := s.search.FieldCounts(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CategoriesMetadata handles GET /categories-metadata.
func (s *Server) CategoriesMetadata(w http.ResponseWriter, r *http.Request) {
	res, err := s.catalog.Metadata(r.Context(), r.URL.Query().Get("projectId"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Suggest handles GET /suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	out, err := s.suggest.Suggest(r.Context(), r.URL.Query().Get("searchText"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// BuildStatus handles GET /build-status.
func (s *Server) BuildStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, version.BuildStatus())
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

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, params request.Params) {
	res, err := s.search.Search(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// runStream validates before writing the status line; once streaming has
// begun, failures can only be logged and the body is cut short.
func (s *Server) runStream(w http.ResponseWriter, r *http.Request, params request.Params, contentType string) {
	ctx := r.Context()
	exp, err := s.export.Prepare(ctx, params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	// exports outlive the server write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	n, err := s.export.Stream(ctx, exp, w)
	log := s.requestLogger(r)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info("export canceled by client", zap.Int64("documents", n))
			return
		}
		log.Error("export aborted", zap.Int64("documents", n), zap.Error(err))
		return
	}
	log.Info("export completed", zap.Int64("documents", n))
}

func decodeParams(w http.ResponseWriter, r *http.Request) (request.Params, bool) {
	var body SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return request.Params{}, false
	}
	return body.Params(), true
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

// safeDomainMessage returns a message for the client without exposing internals.
// Validation messages describe the caller's own input and are returned verbatim.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	for _, s := range []error{domain.ErrCatalogInvalid, domain.ErrBackendIntegrity} {
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

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			if errors.Is(err, domain.ErrInvalidRequest) {
				log.Warn("invalid request", zap.Error(err))
			} else {
				log.Error("request failed", zap.Error(err))
			}
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return s.logger.With(zap.String("request_id", id))
	}
	return s.logger
}
