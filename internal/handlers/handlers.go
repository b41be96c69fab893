// Package handlers holds what the catalog HTTP handlers share: error
// mapping, path ids and upload parsing.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/FlagBrew/local-pokedex/internal/catalog"
	"github.com/apex/log"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/lrstanley/chix"
)

// ErrBadRequest marks a request that could not be decoded at all.
var ErrBadRequest = errors.New("bad request")

// Error writes the response for an error returned by the catalog service.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var verr *catalog.ValidationError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &verr):
		resp := chix.M{"error": catalog.ErrValidation.Error(), "fields": verr.Fields}
		if verr.Selected != nil {
			resp["selected_pokemon"] = verr.Selected
		}
		if verr.Available != nil {
			resp["available_pokemon"] = verr.Available
		}
		chix.JSON(w, r, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, catalog.ErrNotFound):
		chix.JSON(w, r, http.StatusNotFound, chix.M{"error": err.Error()})
	case errors.Is(err, catalog.ErrConcurrencyConflict):
		chix.JSON(w, r, http.StatusConflict, chix.M{"error": err.Error(), "retry": true})
	case errors.Is(err, catalog.ErrReferentialIntegrity):
		chix.JSON(w, r, http.StatusConflict, chix.M{"error": err.Error()})
	case errors.As(err, &tooLarge):
		chix.JSON(w, r, http.StatusRequestEntityTooLarge, chix.M{"error": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)})
	case errors.Is(err, ErrBadRequest):
		chix.JSON(w, r, http.StatusBadRequest, chix.M{"error": err.Error()})
	default:
		log.FromContext(r.Context()).WithError(err).Error("request failed")
		chix.JSON(w, r, http.StatusInternalServerError, chix.M{"error": "internal server error"})
	}
}

// ServiceFromRequest returns the catalog service on the request context,
// answering 500 itself when it is missing.
func ServiceFromRequest(w http.ResponseWriter, r *http.Request) *catalog.Service {
	svc := catalog.FromContext(r.Context())
	if svc == nil {
		log.FromContext(r.Context()).Error("catalog service is nil")
		chix.JSON(w, r, http.StatusInternalServerError, chix.M{"error": "catalog service is unavailable"})
	}
	return svc
}

// ID parses the {id} path parameter, answering 400 itself when it is not a
// positive integer.
func ID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		chix.JSON(w, r, http.StatusBadRequest, chix.M{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ParseUpload limits the body to maxBytes and parses multipart forms so that
// chix.Bind sees their values. Other content types are left to chix.Bind.
func ParseUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil
	}
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// Bind decodes the request form into v.
func Bind(r *http.Request, v any) error {
	if err := chix.Bind(r, v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// Image returns the bytes of the named multipart file, or nil when no file
// (or an empty one) was sent.
func Image(r *http.Request, field string) ([]byte, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// WriteImage answers with raw image bytes, or 404 when there are none.
func WriteImage(w http.ResponseWriter, r *http.Request, data []byte) {
	if len(data) == 0 {
		chix.JSON(w, r, http.StatusNotFound, chix.M{"error": "no image"})
		return
	}

	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// OptionalFloat parses a form value; blank means not provided.
func OptionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%q is not a finite number", raw)
	}
	return &v, nil
}

// OptionalInt parses a form value; blank means not provided.
func OptionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a whole number", raw)
	}
	return &v, nil
}

// FieldErrors collects form conversion problems into a ValidationError.
type FieldErrors struct {
	fields []catalog.FieldError
}

func (f *FieldErrors) Add(field string, err error) {
	if err != nil {
		f.fields = append(f.fields, catalog.FieldError{Field: field, Message: err.Error()})
	}
}

// Merge adds the fields of a ValidationError, or err itself under field.
func (f *FieldErrors) Merge(field string, err error) {
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		f.fields = append(f.fields, verr.Fields...)
		return
	}
	f.Add(field, err)
}

// Err returns nil when nothing was added.
func (f *FieldErrors) Err() *catalog.ValidationError {
	if len(f.fields) == 0 {
		return nil
	}
	return &catalog.ValidationError{Fields: f.fields}
}
