// internal/api/response_helpers.go
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/utils"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIError is the error part of the envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ResponseHelper writes envelopes.
type ResponseHelper struct {
	logger *utils.Logger
}

// NewResponseHelper creates a ResponseHelper.
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{logger: utils.GetLogger()}
}

// Success writes a 200 envelope.
func (rh *ResponseHelper) Success(c *gin.Context, data interface{}, message ...string) {
	response := &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
		RequestID: rh.getRequestID(c),
	}
	if len(message) > 0 {
		response.Message = message[0]
	}
	c.JSON(http.StatusOK, response)
}

// Error writes an error envelope and aborts the chain.
func (rh *ResponseHelper) Error(c *gin.Context, statusCode int, errorCode, message string, details ...string) {
	apiError := &APIError{Code: errorCode, Message: message}
	if len(details) > 0 {
		apiError.Details = details[0]
	}
	c.AbortWithStatusJSON(statusCode, &APIResponse{
		Success:   false,
		Error:     apiError,
		Timestamp: time.Now().UTC(),
		RequestID: rh.getRequestID(c),
	})
}

// FromError maps err onto the error envelope. Internal failures keep their
// cause out of the response and in the log.
func (rh *ResponseHelper) FromError(c *gin.Context, err error) {
	status, code := statusFor(err)
	message := err.Error()

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		if appErr.Err != nil && status < http.StatusInternalServerError {
			rh.Error(c, status, code, message, appErr.Err.Error())
			return
		}
	}
	if status >= http.StatusInternalServerError {
		rh.logger.Error("Request failed", map[string]interface{}{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
		if appErr == nil {
			message = "internal error"
		}
	}
	rh.Error(c, status, code, message)
}

// BadRequest writes a 400 envelope.
func (rh *ResponseHelper) BadRequest(c *gin.Context, message string, details ...string) {
	rh.Error(c, http.StatusBadRequest, ErrorBadRequest, message, details...)
}

// Unauthorized writes a 401 envelope.
func (rh *ResponseHelper) Unauthorized(c *gin.Context, message string) {
	rh.Error(c, http.StatusUnauthorized, ErrorUnauthorized, message)
}

// Forbidden writes a 403 envelope.
func (rh *ResponseHelper) Forbidden(c *gin.Context, message string) {
	rh.Error(c, http.StatusForbidden, ErrorForbidden, message)
}

// DownloadResponse sends content as an attachment.
func (rh *ResponseHelper) DownloadResponse(c *gin.Context, content []byte, filename, contentType string) {
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, contentType, content)
}

func (rh *ResponseHelper) getRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}
