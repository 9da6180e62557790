package middleware

import (
	"sync"

	"github.com/giftdeum/gift-server/internal/service/api/httputil"
	applog "github.com/giftdeum/gift-server/pkg/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// ErrMsgTooManyRequests 요청 제한 초과 시의 응답 메시지입니다.
const ErrMsgTooManyRequests = "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요."

// ipRateLimiter IP 주소별로 독립적인 Token Bucket 기반 Limiter를 관리합니다.
//
// IP 항목은 한 번 생성되면 서버가 재시작될 때까지 유지됩니다. 현재 트래픽
// 규모에서는 문제가 되지 않으며, 규모가 커지면 미사용 항목의 주기적인 정리가
// 필요합니다.
type ipRateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newIPRateLimiter(requestsPerSecond float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// getLimiter IP 주소에 대한 Limiter를 반환합니다. 없으면 새로 생성합니다.
func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limiters[ip]
	i.mu.RUnlock()

	if exists {
		return limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// 다른 고루틴이 먼저 생성했을 수 있으므로 다시 확인한다.
	if limiter, exists = i.limiters[ip]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(i.rate, i.burst)
	i.limiters[ip] = limiter

	return limiter
}

// RateLimiting IP 기반 요청 제한 미들웨어를 반환합니다.
// 제한을 초과한 요청에는 Retry-After 헤더와 함께 429 응답을 반환합니다.
//
// requestsPerSecond 또는 burst가 0 이하이면 패닉이 발생합니다. 제한의 비활성화는
// 설정 단계에서 미들웨어를 등록하지 않는 방식으로 처리합니다.
func RateLimiting(requestsPerSecond float64, burst int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		panic("requestsPerSecond는 양수이어야 합니다")
	}
	if burst <= 0 {
		panic("burst는 양수이어야 합니다")
	}

	limiter := newIPRateLimiter(requestsPerSecond, burst)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if !limiter.getLimiter(ip).Allow() {
				applog.WithComponentAndFields(component, applog.Fields{
					"remote_ip": ip,
					"path":      c.Request().URL.Path,
					"method":    c.Request().Method,
				}).Warn("요청 제한을 초과하였습니다.")

				c.Response().Header().Set("Retry-After", "1")

				return httputil.NewTooManyRequestsError(ErrMsgTooManyRequests)
			}

			return next(c)
		}
	}
}
