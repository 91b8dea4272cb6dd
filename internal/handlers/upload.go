package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/scribeapp/scribe/internal/metrics"
	"github.com/scribeapp/scribe/internal/uploads"
)

// ==========================
// Upload Handler
// ==========================
type UploadHandler struct {
	Store *uploads.Store
}

// ==========================
// Upload (authenticated, multipart field "file")
// ==========================
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		JSONError(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name, err := h.Store.Save(header.Filename, file)
	if err != nil {
		if errors.Is(err, uploads.ErrBadType) {
			JSONError(w, uploads.ErrBadType.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("upload failed", "err", err)
		JSONError(w, "failed to store file", http.StatusInternalServerError)
		return
	}

	metrics.UploadsTotal.Inc()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"filename": name})
}

// ==========================
// Serve (public static file)
// ==========================
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	path, err := h.Store.Path(name)
	if err != nil {
		JSONError(w, "file not found", http.StatusNotFound)
		return
	}
	if _, err := os.Stat(path); err != nil {
		JSONError(w, "file not found", http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, path)
}
