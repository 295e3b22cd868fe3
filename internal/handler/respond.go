package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"

	"shipwatch/internal/dto"
	"shipwatch/internal/repository"

	"github.com/disintegration/imaging"
)

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, dto.ErrorResponse{Detail: detail})
}

func decodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// pathID parses a numeric path segment.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// queryLimit reads ?limit. Missing means DefaultLimit; values outside 1..MaxLimit are rejected.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return repository.DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("limit must be an integer")
	}
	if limit < 1 || limit > repository.MaxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", repository.MaxLimit)
	}
	return limit, nil
}

func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}

// parseUpload reads a multipart body of at most maxBytes. It writes the error
// response itself and reports whether the handler may continue.
func parseUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", maxBytes))
			return false
		}
		respondError(w, http.StatusUnprocessableEntity, "expected multipart form data")
		return false
	}
	return true
}

// formImage decodes the uploaded image in form field name. EXIF orientation is applied.
func formImage(r *http.Request, name string) (image.Image, error) {
	file, _, err := r.FormFile(name)
	if err != nil {
		return nil, fmt.Errorf("missing form file %q", name)
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}
	return img, nil
}

// saveFormFile copies the uploaded form field name into w.
func saveFormFile(r *http.Request, name string, w io.Writer) error {
	file, _, err := r.FormFile(name)
	if err != nil {
		return fmt.Errorf("missing form file %q", name)
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	return nil
}
