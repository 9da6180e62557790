// Package httputil API 응답과 에러의 표준 형식을 제공합니다.
package httputil

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse 표준 에러 응답 형식입니다.
type ErrorResponse struct {
	// ResultCode HTTP 상태 코드와 동일한 결과 코드입니다.
	ResultCode int `json:"result_code"`

	// Message 사용자에게 전달되는 에러 메시지입니다.
	Message string `json:"message"`
}

// NewHTTPError 지정된 상태 코드와 메시지의 표준 에러를 생성합니다.
func NewHTTPError(code int, message string) error {
	return echo.NewHTTPError(code, ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}

// NewBadRequestError 400 Bad Request 에러를 생성합니다.
func NewBadRequestError(message string) error {
	return NewHTTPError(http.StatusBadRequest, message)
}

// NewNotFoundError 404 Not Found 에러를 생성합니다.
func NewNotFoundError(message string) error {
	return NewHTTPError(http.StatusNotFound, message)
}

// NewTooManyRequestsError 429 Too Many Requests 에러를 생성합니다.
func NewTooManyRequestsError(message string) error {
	return NewHTTPError(http.StatusTooManyRequests, message)
}

// NewInternalServerError 500 Internal Server Error 에러를 생성합니다.
func NewInternalServerError(message string) error {
	return NewHTTPError(http.StatusInternalServerError, message)
}
