package responses

import "time"

// APIResponse is the envelope of every JSON endpoint. RequestID echoes the
// X-Request-ID header so a failing call can be matched to the server log.
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
	Data      *T        `json:"data,omitempty"`
}

func NewSuccess[T any](status, requestID string, data *T) APIResponse[T] {
	return APIResponse[T]{Status: status, RequestID: requestID, Timestamp: time.Now().UTC(), Data: data}
}

func NewError(status, requestID, message string) APIResponse[any] {
	return APIResponse[any]{Status: status, RequestID: requestID, Timestamp: time.Now().UTC(), Error: message}
}
