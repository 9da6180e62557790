// Package middleware API 서버의 공통 미들웨어를 제공합니다.
package middleware

import (
	"runtime"

	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	applog "github.com/giftdeum/gift-server/pkg/log"
	"github.com/labstack/echo/v4"
)

// component 미들웨어 로깅용 컴포넌트 이름
const component = "api.middleware"

// stackBufferSize panic 발생 시 스택 트레이스를 저장할 버퍼 크기(4KB)
const stackBufferSize = 4 << 10

// PanicRecovery 핸들러에서 발생한 panic을 복구하고 로깅하는 미들웨어를 반환합니다.
// 복구된 panic은 Internal 에러로 변환되어 전역 에러 핸들러로 전달됩니다.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					recovered, ok := r.(error)
					if !ok {
						recovered = apperrors.Newf(apperrors.Internal, "%v", r)
					}

					stack := make([]byte, stackBufferSize)
					length := runtime.Stack(stack, false)

					fields := applog.Fields{
						"error": recovered,
						"stack": string(stack[:length]),
						"path":  c.Request().URL.Path,
					}
					if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
						fields["request_id"] = requestID
					}

					applog.WithComponentAndFields(component, fields).Error("핸들러에서 panic이 발생하여 복구하였습니다.")

					err = apperrors.Wrap(recovered, apperrors.Internal, "요청 처리 중 복구되지 않은 실패가 발생하였습니다.")
				}
			}()

			return next(c)
		}
	}
}
