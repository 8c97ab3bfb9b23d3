package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/portfolio/internal/upload"
)

type UploadHandler struct {
	svc    *upload.Service
	logger *slog.Logger
}

func NewUploadHandler(svc *upload.Service, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{svc: svc, logger: logger}
}

// multipart overhead allowed on top of the image itself
const formOverhead = 1 << 20

func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Enabled() {
		writeDetail(w, http.StatusServiceUnavailable, "Image upload is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxImageSize+formOverhead)
	file, _, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeDetail(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, upload.MaxImageSize+1))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	res, err := h.svc.Upload(r.Context(), data)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, upload.ErrTooLarge):
		writeDetail(w, http.StatusRequestEntityTooLarge, "File too large")
	case errors.Is(err, upload.ErrUnsupportedType):
		writeDetail(w, http.StatusBadRequest, "Only image uploads are allowed")
	case errors.Is(err, upload.ErrEmpty):
		writeDetail(w, http.StatusBadRequest, "No file uploaded")
	default:
		h.logger.Error("upload image", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Upload failed")
	}
}
