package httpapi

import (
	"encoding/json"
	"net/http"
)

// toJSON writes a JSON response with status code.
func toJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// itemsResponse wraps list payloads so the top-level JSON value is always an
// object.
type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

// items builds a list payload, turning a nil slice into an empty array.
func items[T any](v []T) itemsResponse[T] {
	if v == nil {
		v = []T{}
	}
	return itemsResponse[T]{Items: v}
}
