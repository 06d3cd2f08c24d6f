// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	service "github.com/okian/techrank/internal/app"
	"github.com/okian/techrank/internal/adapters/source"
	"github.com/okian/techrank/internal/domain/model"
	"github.com/okian/techrank/internal/domain/view"
	"github.com/okian/techrank/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Dataset loads and normalizes the configured source.
	Dataset(ctx context.Context) (model.Dataset, error)
	// NormalizeUpload normalizes a table carried in a request body.
	NormalizeUpload(ctx context.Context, name string, r io.Reader, format source.Format) (model.Dataset, error)

	// Presentation over a dataset the client already holds.
	View(ctx context.Context, ds model.Dataset, st view.State) []view.Item
	Chart(ctx context.Context, w io.Writer, ds model.Dataset, st view.State, o service.ChartOptions) error

	DefaultMinRankChange() int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dataHandler      *DataHandler
	normalizeHandler *NormalizeHandler
	viewHandler      *ViewHandler
	chartHandler     *ChartHandler
	configHandler    *ConfigHandler

	maxUploadBytes int64
	limiter        *RateLimiter
	logger         logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxUploadBytes: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	v := newValidator()
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.dataHandler = NewDataHandler(deps)
	s.normalizeHandler = NewNormalizeHandler(deps, s.maxUploadBytes)
	s.viewHandler = NewViewHandler(deps, v)
	s.chartHandler = NewChartHandler(deps, v)
	s.configHandler = NewConfigHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/data", s.wrap(s.dataHandler.HandleGetData, "data"))
	mux.HandleFunc("/api/normalize", s.wrap(s.normalizeHandler.HandlePostNormalize, "normalize"))
	mux.HandleFunc("/api/view", s.wrap(s.viewHandler.HandlePostView, "view"))
	mux.HandleFunc("/api/chart", s.wrap(s.chartHandler.HandlePostChart, "chart"))
	mux.HandleFunc("/api/config", s.wrap(s.configHandler.HandleGetConfig, "config"))
}

// wrap applies the /api/ middleware chain: request id, metrics, rate limit.
func (s *Server) wrap(h http.HandlerFunc, endpoint string) http.HandlerFunc {
	if s.limiter != nil {
		h = s.limiter.Wrap(h, endpoint, s.logger)
	}
	return RequestIDMiddleware(MetricsMiddleware(h, endpoint))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// datasetRequest is the body shared by POST /api/view and POST /api/chart.
type datasetRequest struct {
	Dataset model.Dataset  `json:"dataset"`
	State   view.State     `json:"state"`
	Toggle  *toggleRequest `json:"toggle,omitempty"`
	Apply   *applyRequest  `json:"apply,omitempty"`
}

type toggleRequest struct {
	Entity  string `json:"entity" validate:"required"`
	Checked bool   `json:"checked"`
}

type applyRequest struct {
	MinRankChange int `json:"minRankChange" validate:"gte=0"`
}

// resolve applies an optional threshold change, then an optional toggle.
func (req datasetRequest) resolve() (view.State, error) {
	st := req.State
	if req.Apply != nil {
		st = view.NewState(req.Apply.MinRankChange)
	}
	if req.Toggle != nil {
		spread, ok := view.SpreadOf(req.Dataset, req.Toggle.Entity)
		if !ok {
			return st, fmt.Errorf("unknown entity %q", req.Toggle.Entity)
		}
		st = st.Toggle(req.Toggle.Entity, req.Toggle.Checked, spread)
	}
	return st, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, defaultMaxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrTooLarge
		}
		return err
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage joins field errors into one readable line.
func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
