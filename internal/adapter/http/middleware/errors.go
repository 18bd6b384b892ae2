package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iho/groupledger/internal/adapter/http/dto"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Code: code, Message: message})
}
