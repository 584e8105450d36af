package http

import (
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/tucancha/court-booking/internal/storage"
)

const maxImageSize = 10 << 20

var imageBuckets = map[string]string{
	"venue-images": storage.VenueImages,
	"court-images": storage.CourtImages,
	"court-photos": storage.CourtPhotos,
}

// UploadImage accepts a multipart image and returns its public URL. Clients
// upload first and submit the URL with the venue or court form afterwards.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	bucket, ok := imageBuckets[chi.URLParam(r, "bucket")]
	if !ok {
		http.Error(w, "unknown bucket", http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		http.Error(w, "unsupported image type", http.StatusUnsupportedMediaType)
		return
	}

	url, err := h.images.Upload(r.Context(), bucket, file, header.Size, contentType, filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
