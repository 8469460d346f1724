package response

import (
	"encoding/json"
	"net/http"
)

// JSON encodes body with the given status. A nil body writes headers only.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, body any) { JSON(w, http.StatusOK, body) }

func Created(w http.ResponseWriter, body any) { JSON(w, http.StatusCreated, body) }

// Accepted is used while work continues in the background, e.g. a player
// waiting in the matchmaking queue
func Accepted(w http.ResponseWriter, body any) { JSON(w, http.StatusAccepted, body) }

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
