package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint answers with
type APIResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message" example:"Operation completed successfully"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Status  int         `json:"status" example:"200"`
}

// Pagination describes one page of a listing
type Pagination struct {
	Page  int   `json:"page" example:"1"`
	Limit int   `json:"limit" example:"10"`
	Total int64 `json:"total" example:"42"`
	Pages int   `json:"pages" example:"5"`
}

// NewPagination computes the page count for a listing
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// SuccessResponse sends a 200 success envelope
func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Status:  http.StatusOK,
	})
}

// CreatedResponse sends a 201 success envelope
func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Status:  http.StatusCreated,
	})
}

// FailureResponse sends a failure envelope with the given status
func FailureResponse(c *gin.Context, status int, message string, detail interface{}) {
	c.JSON(status, APIResponse{
		Success: false,
		Message: message,
		Error:   detail,
		Status:  status,
	})
}

// AbortWithFailure writes a failure envelope and stops the handler chain
func AbortWithFailure(c *gin.Context, status int, message string, detail interface{}) {
	c.AbortWithStatusJSON(status, APIResponse{
		Success: false,
		Message: message,
		Error:   detail,
		Status:  status,
	})
}

// BadRequestResponse sends a 400 failure envelope
func BadRequestResponse(c *gin.Context, message string, err error) {
	FailureResponse(c, http.StatusBadRequest, message, errorDetail(err))
}

// UnauthorizedResponse sends a 401 failure envelope
func UnauthorizedResponse(c *gin.Context, message string) {
	FailureResponse(c, http.StatusUnauthorized, message, nil)
}

// ForbiddenResponse sends a 403 failure envelope
func ForbiddenResponse(c *gin.Context, message string) {
	FailureResponse(c, http.StatusForbidden, message, nil)
}

// NotFoundResponse sends a 404 failure envelope
func NotFoundResponse(c *gin.Context, message string) {
	FailureResponse(c, http.StatusNotFound, message, nil)
}

// InternalServerErrorResponse sends a 500 failure envelope
func InternalServerErrorResponse(c *gin.Context, message string, err error) {
	FailureResponse(c, http.StatusInternalServerError, message, errorDetail(err))
}

// ErrorResponse maps err through the error taxonomy and sends the matching envelope.
// Internal causes are not echoed back to the client.
func ErrorResponse(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		InternalServerErrorResponse(c, "Internal server error", nil)
		return
	}

	status := StatusCode(appErr.Kind)
	var detail interface{}
	if appErr.Kind != KindInternal && appErr.Err != nil {
		detail = appErr.Err.Error()
	}
	FailureResponse(c, status, appErr.Message, detail)
}

func errorDetail(err error) interface{} {
	if err == nil {
		return nil
	}
	return err.Error()
}
