package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/quickchat/chat-server-go/internal/errors"
	"github.com/quickchat/chat-server-go/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

// decodeBody parses a request body into the operation's request struct,
// rejecting unknown fields so each endpoint has one deterministic schema.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.ValidationError("Invalid request body").WithCause(err)
	}
	return nil
}
