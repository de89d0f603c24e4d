package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/mediride/internal/apiclient"
	"github.com/example/mediride/internal/bidding"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorBody struct {
	Detail string `json:"detail"`
}

// respondError maps client/backend errors onto the proxy's responses.
// Backend business errors keep their status and detail verbatim; local
// validation errors become 400s; anything else is a 502 because the
// backend, not this process, failed.
func respondError(w http.ResponseWriter, err error) {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr):
		respondJSON(w, apiErr.StatusCode, errorBody{Detail: apiErr.Error()})
	case errors.Is(err, apiclient.ErrSessionExpired):
		respondJSON(w, http.StatusUnauthorized, errorBody{Detail: "authentication required"})
	case errors.Is(err, apiclient.ErrMissingField),
		errors.Is(err, apiclient.ErrPastSchedule),
		errors.Is(err, bidding.ErrInvalidAmount),
		errors.Is(err, bidding.ErrBookingClosed),
		errors.Is(err, bidding.ErrAlreadyDecided):
		respondJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
	default:
		respondJSON(w, http.StatusBadGateway, errorBody{Detail: "backend unavailable, please try again"})
	}
}

// isTransportFailure reports whether the error means the backend could
// not be reached at all, as opposed to the backend answering with a
// business error. Only transport failures may trigger the demo fallback.
func isTransportFailure(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *apiclient.APIError
	return !errors.As(err, &apiErr)
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &apiclient.APIError{StatusCode: http.StatusBadRequest, Detail: "invalid request body"}
	}
	return nil
}
