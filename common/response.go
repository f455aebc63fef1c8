package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-rbac-api/domain"

	"github.com/gin-gonic/gin"
)

// ResponseT is the uniform envelope returned by every endpoint.
type ResponseT[T any] struct {
	Success      bool    `json:"success"`
	StatusCode   int     `json:"statusCode"`
	Data         T       `json:"data"`
	ErrorMessage *string `json:"errorMessage"`
	Debug        string  `json:"debug,omitempty"`
}

// MessageResponse is the data payload of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

var (
	logger    Logger
	debugMode bool
)

// SetLogger sets the logger for response logging
func SetLogger(l Logger) {
	logger = l
}

// SetDebugMode exposes wrapped error detail in error envelopes. Never enable in production.
func SetDebugMode(enabled bool) {
	debugMode = enabled
}

func Response[T any](c *gin.Context, status int, data T, errMsg string) {
	body := ResponseT[T]{
		Success:    status < http.StatusBadRequest,
		StatusCode: status,
		Data:       data,
	}
	if errMsg != "" {
		body.ErrorMessage = &errMsg
	}

	if status >= http.StatusBadRequest && logger != nil {
		logger.Error("API Error",
			"status", status,
			"message", errMsg,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", c.GetString(RequestIDContextKey),
		)
	}

	c.AbortWithStatusJSON(status, body)
}

// Success responses
func ResponseOK[T any](c *gin.Context, data T) {
	Response(c, http.StatusOK, data, "")
}

func ResponseCreated[T any](c *gin.Context, data T) {
	Response(c, http.StatusCreated, data, "")
}

func ResponseBadRequest(c *gin.Context, desc string) {
	ResponseError(c, domain.ErrInvalidInput.WithError(desc))
}

func ResponseForbidden(c *gin.Context, desc string) {
	ResponseError(c, domain.ErrForbidden.WithError(desc))
}

func ResponseNotFound(c *gin.Context, desc string) {
	ResponseError(c, domain.ErrNotFound.WithError(desc))
}

// ResponseError maps any error onto the envelope. Errors outside the
// DetailedError catalog are reported as internal errors.
func ResponseError(c *gin.Context, err error) {
	var dErr *domain.DetailedError
	if de, ok := IsDetailError(err); ok {
		dErr = de
	} else {
		dErr = domain.ErrInternalServerError.WithWrap(err)
	}

	msg := dErr.Error()
	if reason := dErr.Reason(); reason != "" && !strings.Contains(msg, reason) && dErr.StatusCode() < http.StatusInternalServerError {
		msg = fmt.Sprintf("%s: %s", msg, reason)
	}

	body := ResponseT[any]{
		Success:      false,
		StatusCode:   dErr.StatusCode(),
		ErrorMessage: &msg,
	}
	if debugMode {
		body.Debug = debugDetail(dErr)
	}

	if logger != nil {
		fields := []interface{}{
			"status", dErr.StatusCode(),
			"id", dErr.ID(),
			"message", msg,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"request_id", c.GetString(RequestIDContextKey),
		}
		if cause := errors.Unwrap(dErr); cause != nil {
			fields = append(fields, "cause", cause.Error())
		}
		if dErr.StatusCode() >= http.StatusInternalServerError {
			logger.Error("API Error", fields...)
		} else {
			logger.Warn("API Error", fields...)
		}
	}

	c.AbortWithStatusJSON(dErr.StatusCode(), body)
}

func debugDetail(dErr *domain.DetailedError) string {
	if cause := errors.Unwrap(dErr); cause != nil {
		return cause.Error()
	}
	return dErr.ID()
}
