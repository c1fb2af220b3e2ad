package api

import (
	"encoding/json"
	"time"
)

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message or code
	Details string `json:"details,omitempty"` // More specific details about the error, if available
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ActionRequest is the calculator dispatch body: a named action plus its raw
// parameter object, decoded by the action itself.
type ActionRequest struct {
	Action string          `json:"action" binding:"required"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Envelope is the calculator response wrapper. Every dispatch response,
// success or failure, carries this shape.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func envelopeOK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data, Timestamp: time.Now().UTC()}
}

func envelopeErr(msg string) Envelope {
	return Envelope{Success: false, Error: msg, Timestamp: time.Now().UTC()}
}
