package http

import (
	"encoding/json"
	"net/http"
)

// ErrorBody é o formato único de falha da API.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSON escreve o corpo de sucesso como veio, sem envelope.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError escreve {error, details?} com mensagem legível em
// português. Details carrega a mensagem do backend para diagnóstico;
// nunca stack trace.
func WriteError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Error: message, Details: details})
}
