package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ujjwalpatil07/FinVoice/internal/models"
)

// LedgerResponse is the standard envelope for ledger API responses: success
// flag, human message, and either the full updated ledger or an error string.
type LedgerResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Ledger  *models.LedgerRecord `json:"ledger,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteLedger writes a success envelope carrying the full updated ledger.
func WriteLedger(w http.ResponseWriter, statusCode int, message string, ledger *models.LedgerRecord) {
	WriteJSON(w, statusCode, LedgerResponse{Success: true, Message: message, Ledger: ledger})
}

// WriteError writes a JSON error envelope.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, LedgerResponse{Success: false, Error: message})
}

// WriteServiceError maps a service error to an HTTP status: validation 400,
// not found 404, persistence 502, anything else 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case models.IsValidation(err):
		WriteError(w, http.StatusBadRequest, err.Error())
	case models.IsNotFound(err):
		WriteError(w, http.StatusNotFound, err.Error())
	case models.IsPersistence(err):
		WriteError(w, http.StatusBadGateway, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// PathParam extracts a path parameter from the URL path.
// For a pattern like /api/finance/{userId}/goal, calling
// PathParam(r, "/api/finance/", "/goal") extracts the {userId} part.
func PathParam(r *http.Request, prefix, suffix string) string {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if suffix != "" {
		idx := strings.Index(rest, suffix)
		if idx < 0 {
			return rest
		}
		return rest[:idx]
	}
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}
