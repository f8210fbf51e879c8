package response

// Resp is the envelope every JSON response uses. ErrorCode zero means
// success.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
}

// HTTPError is an error carrying the HTTP status and body to respond with.
type HTTPError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with code mirroring the status.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Code:       statusCode,
		Message:    message,
	}
}

// ErrorMapping maps domain sentinel errors to the HTTPError to respond with.
type ErrorMapping map[error]*HTTPError
