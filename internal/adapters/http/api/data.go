package api

import (
	"context"
	"net/http"

	service "github.com/okian/techrank/internal/app"
	"github.com/okian/techrank/internal/domain/model"
)

// DataDependencies defines the interface for dataset loading.
type DataDependencies interface {
	Dataset(ctx context.Context) (model.Dataset, error)
}

// DataHandler handles GET /api/data.
type DataHandler struct {
	deps DataDependencies
}

// NewDataHandler creates a new data handler.
func NewDataHandler(deps DataDependencies) *DataHandler {
	return &DataHandler{deps: deps}
}

// HandleGetData loads and normalizes the configured source. Any failure is
// reported as a 500 with the cause; no partial dataset is ever sent.
func (h *DataHandler) HandleGetData(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_data"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	ds, err := h.deps.Dataset(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, service.ErrorCode(err), Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ds)
}
