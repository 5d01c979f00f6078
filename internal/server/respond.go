package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/GrayFrost/z-tab/pkg/errors"
	"github.com/GrayFrost/z-tab/pkg/grid"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err's code to an HTTP status and writes it as JSON.
// Errors without a code are reported as internal and their text is logged,
// not returned.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	status := statusFor(code)
	msg := apperrors.UserMessage(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
		msg = "internal error"
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidSize, apperrors.ErrCodeInvalidKind,
		apperrors.ErrCodeInvalidURL, apperrors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeTileNotFound, apperrors.ErrCodePageOutOfRange,
		apperrors.ErrCodeWidgetNotFound, apperrors.ErrCodePresetNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into dst. Unknown fields are rejected.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	return decodeBody(w, r, dst, true)
}

// decodeLayout reads a placement array. Layout items carry extra
// client-side keys such as "moved", which are ignored.
func decodeLayout(w http.ResponseWriter, r *http.Request, dst *[]grid.Placement) error {
	return decodeBody(w, r, dst, false)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "request body is empty")
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
