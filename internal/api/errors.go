package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError is a non-2xx response from the SpaceTraders API. The remote
// message is preserved verbatim so tool callers see exactly what the game
// rejected.
type APIError struct {
	Status  int
	Code    int
	Message string
	Data    json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (Status code: %d)", e.Message, e.Status)
}

// AsAPIError unwraps an *APIError from err, if one is present.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type errorEnvelope struct {
	Error struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"error"`
}

func parseAPIError(status int, body []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error.Message == "" {
		return &APIError{Status: status, Message: "Unknown error"}
	}
	return &APIError{
		Status:  status,
		Code:    env.Error.Code,
		Message: env.Error.Message,
		Data:    env.Error.Data,
	}
}
