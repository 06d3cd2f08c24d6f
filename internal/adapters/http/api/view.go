package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/okian/techrank/internal/domain/model"
	"github.com/okian/techrank/internal/domain/ranking"
	"github.com/okian/techrank/internal/domain/view"
)

// ViewDependencies defines the interface for filter list computation.
type ViewDependencies interface {
	View(ctx context.Context, ds model.Dataset, st view.State) []view.Item
}

// ViewHandler handles POST /api/view.
type ViewHandler struct {
	deps     ViewDependencies
	validate *validator.Validate
}

// NewViewHandler creates a new view handler.
func NewViewHandler(deps ViewDependencies, v *validator.Validate) *ViewHandler {
	return &ViewHandler{deps: deps, validate: v}
}

type viewResponse struct {
	State view.State  `json:"state"`
	Items []view.Item `json:"items"`
}

// HandlePostView returns the next filter state and the filter list for the
// dataset in the body. The dataset is taken as already normalized.
func (h *ViewHandler) HandlePostView(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_view"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	req, st, ok := readDatasetRequest(w, r, h.validate, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{State: st, Items: h.deps.View(r.Context(), req.Dataset, st)})
}

// readDatasetRequest decodes, validates and resolves a dataset request,
// writing the error response itself when it fails.
func readDatasetRequest(w http.ResponseWriter, r *http.Request, v *validator.Validate, op string) (datasetRequest, view.State, bool) {
	var req datasetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if errors.Is(err, ErrTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", NewKind(op, ErrTooLarge))
			return req, view.State{}, false
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return req, view.State{}, false
	}
	if err := v.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrInvalidInput, validationMessage(err)))
		return req, view.State{}, false
	}
	if err := ranking.Verify(req.Dataset); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_dataset", WrapKind(op, ErrInvalidInput, err))
		return req, view.State{}, false
	}
	st, err := req.resolve()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrInvalidInput, err))
		return req, view.State{}, false
	}
	return req, st, true
}
