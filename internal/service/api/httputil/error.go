package httputil

import (
	"net/http"

	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	applog "github.com/giftdeum/gift-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// component 에러 핸들러 로깅용 컴포넌트 이름
const component = "api.error_handler"

// ErrMsgInternalServer 내부 서버 오류 시 외부에 노출되는 메시지입니다.
// 내부 에러의 상세 내용은 로그로만 남기고 응답에는 포함하지 않습니다.
const ErrMsgInternalServer = "서버 내부 오류가 발생하였습니다."

// StatusFromError 에러를 HTTP 상태 코드와 응답 메시지로 변환합니다.
//
// AppError의 종류는 다음과 같이 매핑됩니다.
//   - InvalidInput → 400, Unauthorized → 401, Forbidden → 403, NotFound → 404
//   - Conflict → 409, Timeout → 504, Unavailable → 502
//   - 그 외(Internal, System, ExecutionFailed 등) → 500
//
// 5xx 에러의 상세 메시지는 응답으로 노출하지 않습니다.
func StatusFromError(err error) (int, string) {
	var code int

	switch apperrors.UnderlyingType(err) {
	case apperrors.InvalidInput:
		code = http.StatusBadRequest
	case apperrors.Unauthorized:
		code = http.StatusUnauthorized
	case apperrors.Forbidden:
		code = http.StatusForbidden
	case apperrors.NotFound:
		code = http.StatusNotFound
	case apperrors.Conflict:
		code = http.StatusConflict
	case apperrors.Timeout:
		code = http.StatusGatewayTimeout
	case apperrors.Unavailable:
		code = http.StatusBadGateway
	default:
		code = http.StatusInternalServerError
	}

	if code >= http.StatusInternalServerError {
		return code, ErrMsgInternalServer
	}

	return code, err.Error()
}

// ErrorHandler Echo 프레임워크의 전역 에러 핸들러입니다.
//
// 핸들러가 반환한 에러를 표준 ErrorResponse JSON 형식으로 변환하고, 상태 코드에
// 따라 적절한 레벨로 로그를 남깁니다. AppError는 종류별 상태 코드로 매핑됩니다.
func ErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := ErrMsgInternalServer

	switch e := err.(type) {
	case *echo.HTTPError:
		code = e.Code
		if msg, ok := e.Message.(string); ok {
			message = msg
		} else if resp, ok := e.Message.(ErrorResponse); ok {
			message = resp.Message
		}
	default:
		code, message = StatusFromError(err)
	}

	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": code,
		"error":       err,
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if code >= http.StatusInternalServerError {
		applog.WithComponentAndFields(component, fields).Error("HTTP 5xx 서버 에러가 발생하였습니다.")
	} else if code >= http.StatusBadRequest {
		applog.WithComponentAndFields(component, fields).Warn("HTTP 4xx 클라이언트 에러가 발생하였습니다.")
	}

	// 이미 응답이 전송된 경우에는 추가 응답을 시도하지 않는다.
	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}

	_ = c.JSON(code, ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}
