package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reminderd/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a success response for a newly created resource
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response, mapping application error codes
// to HTTP statuses.
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := "internal server error"
	field := ""
	code := errors.ErrInternal

	if appErr, ok := errors.AsAppError(err); ok {
		statusCode = httpStatus(appErr.Code)
		message = appErr.Message
		field = appErr.Field
		code = appErr.Code
	}

	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    int(code),
			Message: message,
			Field:   field,
		},
	})
}

func httpStatus(code errors.ErrorCode) int {
	switch code {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrBadRequest, errors.ErrMissingField:
		return http.StatusBadRequest
	case errors.ErrAlreadyTerminal, errors.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
