package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"blogplatform/app/services"
)

// FileController accepts media uploads.
type FileController struct {
	uploadService *services.UploadService
	logger        *slog.Logger
}

func NewFileController(uploadService *services.UploadService, logger *slog.Logger) *FileController {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileController{uploadService: uploadService, logger: logger}
}

// Upload stores the multipart field "file".
func (fc *FileController) Upload(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart framing around a maximum size file.
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxFileSize+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, "File size exceeds 10MB limit", http.StatusBadRequest)
			return
		}
		sendError(w, "Please select a file", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		sendError(w, "Please select a file", http.StatusBadRequest)
		return
	}
	file.Close()

	uploaded, err := fc.uploadService.Save(r.Context(), header)
	if err != nil {
		if services.IsValidation(err) {
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		fc.logger.ErrorContext(r.Context(), "upload failed", "filename", header.Filename, "error", err)
		sendError(w, "Failed to upload file", http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, uploaded)
}
