package middleware

import (
	"time"

	applog "github.com/giftdeum/gift-server/pkg/log"
	"github.com/giftdeum/gift-server/pkg/strutil"
	"github.com/labstack/echo/v4"
)

// HTTPLogger 모든 HTTP 요청과 응답을 구조화된 로그로 기록하는 미들웨어를 반환합니다.
// 쿼리 문자열의 민감 정보는 마스킹된 후 기록됩니다.
func HTTPLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// 에러 핸들러가 상태 코드를 확정한 후에 로그를 남기도록 위임한다.
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			fields := applog.Fields{
				"method":      req.Method,
				"path":        req.URL.Path,
				"status_code": res.Status,
				"latency_ms":  time.Since(start).Milliseconds(),
				"remote_ip":   c.RealIP(),
				"bytes_out":   res.Size,
				"request_id":  res.Header().Get(echo.HeaderXRequestID),
			}
			if query := req.URL.RawQuery; query != "" {
				fields["query"] = strutil.MaskSensitiveData(query)
			}

			applog.WithComponentAndFields("api.http", fields).Info("HTTP 요청을 처리하였습니다.")

			return nil
		}
	}
}
