package responses

// ErrorResponse is the canonical error body.
type ErrorResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func NewError(code int, title, message string) ErrorResponse {
	return ErrorResponse{Title: title, Message: message, Code: code}
}
