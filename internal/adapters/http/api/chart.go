package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	service "github.com/okian/techrank/internal/app"
	"github.com/okian/techrank/internal/adapters/render"
	"github.com/okian/techrank/internal/domain/model"
	"github.com/okian/techrank/internal/domain/view"
)

// ChartDependencies defines the interface for chart rendering.
type ChartDependencies interface {
	Chart(ctx context.Context, w io.Writer, ds model.Dataset, st view.State, o service.ChartOptions) error
}

// ChartHandler handles POST /api/chart.
type ChartHandler struct {
	deps     ChartDependencies
	validate *validator.Validate
}

// NewChartHandler creates a new chart handler.
func NewChartHandler(deps ChartDependencies, v *validator.Validate) *ChartHandler {
	return &ChartHandler{deps: deps, validate: v}
}

// chartQuery mirrors the query string of POST /api/chart.
type chartQuery struct {
	Format string `json:"format" validate:"omitempty,oneof=svg png"`
	Width  int    `json:"width" validate:"omitempty,gte=100,lte=4096"`
	Height int    `json:"height" validate:"omitempty,gte=100,lte=4096"`
	Title  string `json:"title" validate:"omitempty,max=200"`
}

// HandlePostChart renders the visible entities of the dataset in the body.
// The image is buffered so a render failure never yields a partial body.
func (h *ChartHandler) HandlePostChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_chart"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	q, err := parseChartQuery(r)
	if err == nil {
		err = h.validate.Struct(q)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrInvalidInput, validationMessage(err)))
		return
	}

	req, st, ok := readDatasetRequest(w, r, h.validate, op)
	if !ok {
		return
	}

	format := render.Format(q.Format)
	if format == "" {
		format = render.FormatSVG
	}
	var buf bytes.Buffer
	opts := service.ChartOptions{Format: format, Width: q.Width, Height: q.Height, Title: q.Title}
	if err := h.deps.Chart(r.Context(), &buf, req.Dataset, st, opts); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func parseChartQuery(r *http.Request) (chartQuery, error) {
	v := r.URL.Query()
	q := chartQuery{Format: v.Get("format"), Title: v.Get("title")}
	var err error
	if s := v.Get("width"); s != "" {
		if q.Width, err = strconv.Atoi(s); err != nil {
			return q, err
		}
	}
	if s := v.Get("height"); s != "" {
		if q.Height, err = strconv.Atoi(s); err != nil {
			return q, err
		}
	}
	return q, nil
}
