package handlers

import (
	"encoding/json"
	"net/http"
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

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
