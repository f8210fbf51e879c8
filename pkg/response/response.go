package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	MessageSuccess      = "Success"
	DefaultErrorMessage = "Something went wrong"

	InternalServerErrorCode = 500
)

// NewOKResp returns a new OK response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		ErrorCode: 0,
		Message:   MessageSuccess,
		Data:      data,
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// Unauthorized sends 401 response.
func Unauthorized(c *gin.Context) {
	HttpError(c, NewHTTPError(http.StatusUnauthorized, "Unauthorized"))
}

// BadRequest sends 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	HttpError(c, NewHTTPError(http.StatusBadRequest, message))
}

// HttpError sends response for *HTTPError.
func HttpError(c *gin.Context, err *HTTPError) {
	statusCode := err.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusBadRequest
	}
	c.JSON(statusCode, Resp{
		ErrorCode: err.Code,
		Message:   err.Message,
	})
}

// Error sends the error response, unwrapping *HTTPError when possible and
// falling back to an opaque 500.
func Error(c *gin.Context, err error) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		HttpError(c, httpErr)
		return
	}
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: InternalServerErrorCode,
		Message:   DefaultErrorMessage,
	})
}

// ErrorWithMap looks up err in eMap and sends the corresponding HTTPError,
// else Error.
func ErrorWithMap(c *gin.Context, err error, eMap ErrorMapping) {
	for sentinel, httpErr := range eMap {
		if errors.Is(err, sentinel) {
			HttpError(c, httpErr)
			return
		}
	}
	Error(c, err)
}

// PanicError handles panic recovery and sends error response.
func PanicError(c *gin.Context, recovered any) {
	if err, ok := recovered.(error); ok {
		Error(c, err)
		return
	}
	Error(c, fmt.Errorf("%v", recovered))
}
