package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/liarsdice-go/internal/api/apierr"
	"github.com/mcoot/liarsdice-go/internal/api/request"
)

// WriteError writes err as the standard JSON error body
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates a 400 with the given message
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decode reads a JSON body into dst and validates it if it knows how,
// writing a 400 on failure
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return false
	}

	v, ok := dst.(request.Validator)
	if !ok {
		return true
	}
	if err := v.Validate(); err != nil {
		var missing *request.MissingFieldError
		if errors.As(err, &missing) {
			err = NewInvalidRequestError(missing.Error())
		}
		WriteError(w, err)
		return false
	}
	return true
}
