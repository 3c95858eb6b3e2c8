package httpapi

import (
	"encoding/json"
	"net/http"

	errx "github.com/nash-core-poc/server/internal/core/error"
)

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(data)
}

// writeError sends an error response
func writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// writeAppError maps err through its AppError status and kind. Internal
// failures get the generic system message.
func writeAppError(w http.ResponseWriter, err error) {
	status := errx.StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = errx.SystemErrorMessage
	}
	writeError(w, status, string(errx.KindOf(err)), message)
}

// decodeBody reads a JSON request body into v, keeping numbers as json.Number.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errx.NewKind(errx.KindInvalidRequest, err, "invalid request body")
	}
	return nil
}
