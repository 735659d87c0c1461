package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes caps request bodies read by DecodeJSON.
const MaxBodyBytes = 10 << 20

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// WriteMessage writes {"message": msg} with the given status.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"message": msg})
}

// DecodeJSON decodes a JSON object body into a generic map. Numbers decode as float64.
func DecodeJSON(body io.Reader) (map[string]interface{}, error) {
	var out map[string]interface{}
	dec := json.NewDecoder(io.LimitReader(body, MaxBodyBytes))
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			return map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if out == nil {
		out = map[string]interface{}{}
	}
	return out, nil
}
