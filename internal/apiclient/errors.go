package apiclient

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrUnauthorized is returned for HTTP 401 responses. Callers treat it as an expired
// session rather than as a user-facing error.
var ErrUnauthorized = errors.New("apiclient: unauthorized")

// StatusError is a non-success response other than 401.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return "apiclient: unexpected status " + httpStatus(e.StatusCode)
	}
	return e.Detail
}

// Message returns the text to show the user for err: the backend's detail when it
// sent one, otherwise fallback.
func Message(err error, fallback string) string {
	var se *StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	return fallback
}

// parseDetail extracts the "detail" field of an error body. FastAPI sends either a
// string or a list of validation entries with a "msg" field.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var entries []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
