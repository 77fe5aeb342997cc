package kit

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message    string `json:"message"`
	Status     string `json:"status"`
	StatusCode string `json:"statusCode"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	if status == http.StatusNoContent || v == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, NewErrorResponse(status, msg))
}

func NewErrorResponse(status int, msg string) ErrorResponse {
	return ErrorResponse{
		Message:    msg,
		Status:     http.StatusText(status),
		StatusCode: strconv.Itoa(status),
	}
}
