package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// Response is the envelope returned by every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Body    any    `json:"body,omitempty"`
}

// Respond writes a success envelope with the given message and body.
func Respond(w http.ResponseWriter, logger *slog.Logger, status int, message string, body any) {
	writeEnvelope(w, logger, status, Response{Success: true, Message: message, Body: body})
}

// RespondError writes a failure envelope with the given message.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeEnvelope(w, logger, status, Response{Success: false, Message: message})
}

func writeEnvelope(w http.ResponseWriter, logger *slog.Logger, status int, envelope Response) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

// ParseID extracts and validates the ID from the request path. Returns the ID and a boolean indicating success.
func ParseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	return ParsePathID(w, r, logger, "id")
}

// ParsePathID extracts and validates a UUID path parameter by name.
func ParsePathID(w http.ResponseWriter, r *http.Request, logger *slog.Logger, name string) (uuid.UUID, bool) {
	pathValue := r.PathValue(name)
	id, err := uuid.Parse(pathValue)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid ID: %s", pathValue))
		return uuid.UUID{}, false
	}
	return id, true
}

// GetPrincipal retrieves the authenticated principal from the request context.
// Writes a 401 envelope and returns false when no principal is attached.
func GetPrincipal(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (Principal, bool) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		RespondError(w, logger, http.StatusUnauthorized, "Unauthorized: missing principal")
		return Principal{}, false
	}
	return p, true
}
