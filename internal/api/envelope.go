package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// Envelope is the consistent JSON wrapper for every API response.
// Success responses carry data, failures carry a coded error object.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the wire shape of an API error.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every huma response body in an Envelope.
// Registered on the huma config so handlers return plain bodies.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return Envelope{
			Success: false,
			Error: &ErrorBody{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		}, nil
	}

	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}

	if code >= 400 {
		// Errors that bypassed huma.NewError (already formatted bodies).
		return Envelope{
			Success: false,
			Error: &ErrorBody{
				Code:    statusToCode(code),
				Message: statusText(v),
			},
		}, nil
	}

	return Envelope{
		Success: true,
		Data:    v,
	}, nil
}

// statusText extracts a message from an unknown error body.
func statusText(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "request failed"
}
