package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped only on breaking envelope changes; clients
// check it before parsing the rest.
const envelopeVersion = 1

// Envelope is the uniform response wrapper: every body, success or
// error, carries a version and a success flag so clients can parse
// responses without consulting the status code first.
type Envelope struct {
	V       int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload on success"`
	Error   string `json:"error,omitempty" doc:"Error summary on failure"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Message string `json:"message,omitempty" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every huma response body in the envelope.
// Registered on the huma config so handlers return plain payloads.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		env := Envelope{V: envelopeVersion, Success: false}

		var apiErr *APIError
		if err, ok := v.(error); ok && errors.As(err, &apiErr) {
			env.Error = apiErr.Message
			env.Code = apiErr.Code
			env.Message = apiErr.Message
			env.Details = apiErr.Details
		} else if err, ok := v.(error); ok {
			env.Error = err.Error()
		}
		return env, nil
	}

	return Envelope{V: envelopeVersion, Success: true, Data: v}, nil
}
