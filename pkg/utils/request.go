package utils

import (
	"encoding/json"
	"errors"
	"net/http"
)

// MaxJSONBodyBytes bounds every JSON request body.
const MaxJSONBodyBytes = 10 << 10

// DecodeJSON reads a bounded JSON body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return NewAppError(http.StatusRequestEntityTooLarge, "Request body too large", err)
		}
		return NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	return nil
}
