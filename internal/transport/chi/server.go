package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gridprox/internal/domain"
	"github.com/kailas-cloud/gridprox/internal/transport/api"
	healthuc "github.com/kailas-cloud/gridprox/internal/usecase/health"
	proximityuc "github.com/kailas-cloud/gridprox/internal/usecase/proximity"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// ProximityQuerier runs proximity queries.
type ProximityQuerier interface {
	Query(ctx context.Context, address string, opts proximityuc.Options) (*domain.Report, error)
}

// HealthChecker reports service health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server implements api.ServerInterface for the chi router.
type Server struct {
	proximity     ProximityQuerier
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ api.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(proximity ProximityQuerier, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		proximity: proximity,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, api.ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrAddressNotFound, http.StatusNotFound, api.ErrorResponseCodeAddressNotFound),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, api.ErrorResponseCodeUpstreamError),
		sentinelHandler(domain.ErrMalformedFeed, http.StatusBadGateway, api.ErrorResponseCodeMalformedFeed),
	}
	return s
}

// GetProximity handles GET /proximity.
func (s *Server) GetProximity(w http.ResponseWriter, r *http.Request, params api.GetProximityParams) {
	opts := proximityuc.Options{}
	if params.Radius != nil {
		if *params.Radius <= 0 {
			writeError(w, http.StatusBadRequest, api.ErrorResponseCodeValidationFailed, "radius must be positive")
			return
		}
		opts.RadiusM = *params.Radius
	}

	report, err := s.proximity.Query(r.Context(), params.Address, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reportToAPI(report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]api.HealthResponseChecks)
	for k, v := range report.Checks {
		checks[k] = api.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, api.HealthResponse{
		Status: api.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// BadRequestHandler renders parameter binding failures as JSON.
func BadRequestHandler(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, api.ErrorResponseCodeBadRequest, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code api.ErrorResponseCode, message string) {
	writeJSON(w, status, api.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrAddressNotFound,
		domain.ErrUpstream,
		domain.ErrMalformedFeed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code api.ErrorResponseCode) errorHandler {
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
	writeError(w, http.StatusInternalServerError, api.ErrorResponseCodeInternalError, "internal error")
}

func reportToAPI(r *domain.Report) api.ProximityResponse {
	resp := api.ProximityResponse{
		Address:    r.Address.DisplayName,
		Latitude:   r.Address.Latitude,
		Longitude:  r.Address.Longitude,
		Suburbs:    r.Suburbs,
		Distances:  distancesToAPI(r.Distances),
		Highlights: distancesToAPI(r.Highlights()),
	}
	if resp.Suburbs == nil {
		resp.Suburbs = []string{}
	}
	if r.Postcode != 0 {
		pc := r.Postcode
		resp.Postcode = &pc
	}
	if r.HomeSuburb != "" {
		home := r.HomeSuburb
		resp.HomeSuburb = &home
	}
	resp.Summary = make([]string, len(resp.Highlights))
	for i, d := range r.Highlights() {
		resp.Summary[i] = d.String()
	}
	return resp
}

func distancesToAPI(ds []domain.VoltageDistance) []api.VoltageDistance {
	out := make([]api.VoltageDistance, len(ds))
	for i, d := range ds {
		out[i] = api.VoltageDistance{VoltageKv: d.VoltageKV, DistanceM: d.DistanceM, Lines: d.Lines}
	}
	return out
}
