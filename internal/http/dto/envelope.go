package dto

// Response is the success envelope shared by every endpoint.
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorResponse is the uniform failure body. Applied is present on action
// submissions so callers never show an optimistic change; Outcome is "unknown"
// when a write may or may not have committed.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Applied *bool  `json:"applied,omitempty"`
	Outcome string `json:"outcome,omitempty"`
}

const (
	CodeValidation   = "validation_error"
	CodeNotFound     = "not_found"
	CodeUnauthorized = "unauthorized"
	CodeConflict     = "conflict"
	CodeStorage      = "storage_error"
	CodeInternal     = "internal_error"

	OutcomeUnknown = "unknown"
)

func OK(data any) Response {
	return Response{Success: true, Data: data}
}
