package handler

// Response is the envelope every JSON endpoint returns. Status is
// "success" or "error"; Message is only set on errors and Data only on
// successes, so clients can branch on Status alone.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

// NewErrorResponse wraps a client-safe message; never pass raw
// internal errors through here.
func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}
