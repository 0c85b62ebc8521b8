package types

// SuccessEnvelope wraps every successful payload.
type SuccessEnvelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorEnvelope carries the public message and the machine-readable code.
type ErrorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
