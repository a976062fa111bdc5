package handlers

import (
	"encoding/json"
	"net/http"
	"todoTracker/internal/logger"
	"todoTracker/internal/middleware"
	"todoTracker/pkg/translator"
)

type Payload struct {
	Key     string
	Payload any
}

func toPayload(key string, pl any) Payload {
	return Payload{Key: key, Payload: pl}
}

func toJSON(storage map[string]any, payload Payload) {
	storage[payload.Key] = payload.Payload
}

func responseWithJSON(w http.ResponseWriter, code int, payload ...Payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	storage := make(map[string]any)
	for _, pl := range payload {
		toJSON(storage, pl)
	}
	if err := json.NewEncoder(w).Encode(storage); err != nil {
		logger.Error("HTTP: failed to encode response", err)
	}
}

// responseWithSuccess writes {"success": true, "message": ...} plus payload.
func responseWithSuccess(w http.ResponseWriter, r *http.Request, code int, messageID string, payload ...Payload) {
	responseWithMessage(w, r, code, true, messageID, nil, payload...)
}

// responseWithError writes a failed envelope with an error text.
func responseWithError(w http.ResponseWriter, r *http.Request, code int, messageID string, err error) {
	payload := []Payload{}
	if err != nil {
		payload = append(payload, toPayload("error", err.Error()))
	}
	responseWithMessage(w, r, code, false, messageID, nil, payload...)
}

func responseWithMessage(w http.ResponseWriter, r *http.Request, code int, success bool, messageID string, data map[string]any, payload ...Payload) {
	all := []Payload{
		toPayload("success", success),
		toPayload("message", localize(r, messageID, data)),
	}
	all = append(all, payload...)
	responseWithJSON(w, code, all...)
}

func localize(r *http.Request, messageID string, data map[string]any) string {
	return translator.Localize(middleware.GetLang(r.Context()), messageID, data)
}
