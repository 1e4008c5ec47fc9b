package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("encoding response failed", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string, detail ...string) {
	body := map[string]string{"error": msg}
	if len(detail) > 0 && detail[0] != "" {
		body["detail"] = detail[0]
	}
	respondJSON(w, status, body)
}
