package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
)

// errTooLarge is answered with 413.
var errTooLarge = errors.New("request body too large")

// readUpload returns the uploaded bytes, either the raw body or the
// "file" part of a multipart form.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	body := http.MaxBytesReader(w, r.Body, limit)

	var src io.Reader = body
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mt == "multipart/form-data" {
		r.Body = body
		// parts beyond the memory budget spill to temp files
		if err := r.ParseMultipartForm(limit); err != nil {
			return nil, uploadError(err)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("%w: missing file field: %v", domain.ErrValidation, err)
		}
		defer f.Close()
		src = f
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, uploadError(err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrValidation)
	}
	return data, nil
}

func uploadError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return fmt.Errorf("%w: limit is %d bytes", errTooLarge, mbe.Limit)
	}
	return fmt.Errorf("%w: failed to read upload: %v", domain.ErrValidation, err)
}

func writeUploadError(w http.ResponseWriter, err error) bool {
	if errors.Is(err, errTooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
		return true
	}
	return false
}
