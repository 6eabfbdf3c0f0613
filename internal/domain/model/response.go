package model

// DataResponse wraps a single payload.
type DataResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

// MessageResponse is the body of requests that return no data.
type MessageResponse struct {
	Message string `json:"message"`
}
