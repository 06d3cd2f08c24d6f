package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	service "github.com/okian/techrank/internal/app"
	"github.com/okian/techrank/internal/adapters/source"
	"github.com/okian/techrank/internal/domain/model"
)

// NormalizeDependencies defines the interface for upload normalization.
type NormalizeDependencies interface {
	NormalizeUpload(ctx context.Context, name string, r io.Reader, format source.Format) (model.Dataset, error)
}

// NormalizeHandler handles POST /api/normalize.
type NormalizeHandler struct {
	deps     NormalizeDependencies
	maxBytes int64
}

// NewNormalizeHandler creates a new normalize handler.
func NewNormalizeHandler(deps NormalizeDependencies, maxBytes int64) *NormalizeHandler {
	return &NormalizeHandler{deps: deps, maxBytes: maxBytes}
}

// HandlePostNormalize normalizes a CSV or XLSX body. The format comes from
// the Content-Type, or is sniffed when the type is absent or generic.
func (h *NormalizeHandler) HandlePostNormalize(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_normalize"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	format, err := uploadFormat(r.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", WrapKind(op, ErrUnsupported, err))
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.maxBytes)
	ds, err := h.deps.NormalizeUpload(r.Context(), "upload", body, format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
			return
		}
		code := service.ErrorCode(err)
		status := http.StatusInternalServerError
		if code == service.CodeMalformedSource {
			status = http.StatusBadRequest
		}
		writeError(w, status, code, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func uploadFormat(contentType string) (source.Format, error) {
	if contentType == "" {
		return source.FormatAuto, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", err
	}
	switch mediaType {
	case "application/octet-stream", "text/plain":
		return source.FormatAuto, nil
	default:
		return source.ParseFormat(mediaType)
	}
}
