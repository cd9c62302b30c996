package server

import (
	"encoding/json"
	"net/http"

	"github.com/styloxis/honeycomb/pkg/errors"
)

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError maps err to its HTTP status and a JSON error body. Internal
// errors are reported without their cause.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	body.Error.Message = errors.UserMessage(err)
	if status >= 500 {
		body.Error.Code = errors.ErrCodeInternal
		body.Error.Message = "internal error"
	}
	body.RequestID = requestIDFrom(r.Context())
	writeJSON(w, status, body)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func notFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "%s not found", path)
}
