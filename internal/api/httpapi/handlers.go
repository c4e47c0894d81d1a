package httpapi

import (
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/app/library"
	"github.com/osa030/tunedeck/internal/domain/track"
)

// multipartOverhead is allowed on top of the file size limit for form fields
// and part headers.
const multipartOverhead = 1 << 20

// UploadResponse is the body returned by UploadTrack.
type UploadResponse struct {
	Success bool          `json:"success"`
	Code    string        `json:"code,omitempty"`
	Message string        `json:"message"`
	Track   *track.Record `json:"track,omitempty"`
}

// HealthResponse contains the health check response.
type HealthResponse struct {
	Status         string `json:"status"`
	Tracks         int    `json:"tracks"`
	SpotifyEnabled bool   `json:"spotifyEnabled"`
	Subscribers    int    `json:"subscribers"`
	GoVersion      string `json:"goVersion"`
	NumGoroutine   int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	status := h.library.GetStatus()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:         "healthy",
		Tracks:         status.Size,
		SpotifyEnabled: status.SpotifyEnabled,
		Subscribers:    status.Subscribers,
		GoVersion:      runtime.Version(),
		NumGoroutine:   runtime.NumGoroutine(),
	})
}

// UploadTrack accepts a multipart form with a "file" part and optional
// "title" and "artist" fields, and appends the file to the playlist.
func (h *Handlers) UploadTrack(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadBytes()+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeUploadError(w, http.StatusRequestEntityTooLarge, "upload_too_large")
			return
		}
		writeJSON(w, http.StatusBadRequest, UploadResponse{Message: "No file part"})
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeJSON(w, http.StatusBadRequest, UploadResponse{Message: "No selected file"})
		return
	}

	rec, err := h.library.AddUpload(r.Context(), header.Filename, file, r.FormValue("title"), r.FormValue("artist"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, UploadResponse{
			Success: true,
			Message: h.config.GetMessage("track_added"),
			Track:   rec,
		})
	case errors.Is(err, library.ErrRejected):
		h.writeUploadError(w, http.StatusConflict, library.RejectionCode(err))
	case errors.Is(err, library.ErrUploadTooLarge):
		h.writeUploadError(w, http.StatusRequestEntityTooLarge, "upload_too_large")
	case errors.Is(err, library.ErrInvalidFilename):
		writeJSON(w, http.StatusBadRequest, UploadResponse{Message: "Invalid file name"})
	default:
		zlog.Error().Err(err).Str("file", header.Filename).Msg("upload failed")
		h.writeUploadError(w, http.StatusInternalServerError, "")
	}
}

func (h *Handlers) writeUploadError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, UploadResponse{
		Code:    code,
		Message: h.config.GetMessage(code),
	})
}

// writeJSON encodes v as JSON with the given status code.
// Encoding errors are logged since the header is already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Error().Err(err).Msg("failed to encode JSON response")
	}
}
