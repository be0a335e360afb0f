package middleware

import (
	"encoding/json"
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Reason strings emitted by the pipeline itself; domain errors carry their
// own reasons via errors.Reason.
const (
	ReasonAuthorizationHeaderMissing = "authorization_header_missing"
	ReasonInsufficientCapabilities   = "insufficient_capabilities"
	ReasonInternal                   = "internal_error"
)

type errorEnvelope struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// writeError sends the JSON error envelope {message, errors}.
func writeError(w http.ResponseWriter, code int, message string, reasons ...string) {
	if reasons == nil {
		reasons = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Message: message, Errors: reasons})
}

// writeInternal logs err with the request correlation id and sends a 500.
// The body is generic in production and carries the error only in
// development.
func writeInternal(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error, development bool) {
	reqID := chimid.GetReqID(r.Context())
	log.Error().Err(err).Str("request_id", reqID).Str("path", r.URL.Path).Msg("pipeline internal error")
	message := "internal error"
	if development && err != nil {
		message = err.Error()
	}
	writeError(w, http.StatusInternalServerError, message, ReasonInternal)
}
