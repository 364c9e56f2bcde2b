package http

import (
	"encoding/json"
	"net/http"
)

const (
	msgInvalidBody   = "Invalid request body"
	msgInternalError = "Internal server error"
	msgUnauthorized  = "Unauthorized - No Token Provided"
	msgInvalidToken  = "Unauthorized - Invalid Token"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
