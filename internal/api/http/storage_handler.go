package http

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/storage"
)

// StorageHandler accepts and serves bytes for storage backends whose
// presigned URLs point back at this server.
type StorageHandler struct {
	store        storage.LocalStorage
	allowedTypes []string
	maxBytes     int64
}

func NewStorageHandler(store storage.LocalStorage, allowedTypes []string, maxFileSizeMB int64) *StorageHandler {
	return &StorageHandler{
		store:        store,
		allowedTypes: allowedTypes,
		maxBytes:     maxFileSizeMB * 1024 * 1024,
	}
}

func (h *StorageHandler) allowed(contentType string) bool {
	if len(h.allowedTypes) == 0 {
		return true
	}
	for _, t := range h.allowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

// HandleUpload handles PUT requests to mock presigned URLs
func (h *StorageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}
	if !h.allowed(r.Header.Get("Content-Type")) {
		http.Error(w, "Invalid content type", http.StatusBadRequest)
		return
	}

	body := io.Reader(r.Body)
	if h.maxBytes > 0 {
		// one byte over the limit is enough for attach to reject the file
		body = io.LimitReader(r.Body, h.maxBytes+1)
	}
	if err := h.store.SaveFile(key, body); err != nil {
		logger.WarnContext(r.Context(), "Mock upload failed", "key", key, "error", err)
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	// mimic the S3 response
	w.Header().Set("ETag", `"mock-etag-success"`)
	w.WriteHeader(http.StatusOK)
}

// HandleDownload handles GET requests to mock presigned download URLs
func (h *StorageHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	file, err := h.store.ReadFile(key)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=300")

	if _, err := io.Copy(w, file); err != nil {
		logger.WarnContext(r.Context(), "Mock download interrupted", "key", key, "error", err)
	}
}
