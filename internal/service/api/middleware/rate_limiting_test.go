package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRateLimitedRequest(t *testing.T, mw echo.MiddlewareFunc, remoteAddr string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return rec, handler(c)
}

func TestRateLimiting(t *testing.T) {
	t.Run("버스트 범위 내의 요청은 허용된다", func(t *testing.T) {
		mw := RateLimiting(1, 2)

		for i := 0; i < 2; i++ {
			rec, err := doRateLimitedRequest(t, mw, "10.0.0.1:1234")
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("버스트 초과 요청은 429 에러를 반환한다", func(t *testing.T) {
		mw := RateLimiting(1, 1)

		_, err := doRateLimitedRequest(t, mw, "10.0.0.2:1234")
		require.NoError(t, err)

		_, err = doRateLimitedRequest(t, mw, "10.0.0.2:1234")
		require.Error(t, err)

		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
	})

	t.Run("IP별로 독립적인 제한이 적용된다", func(t *testing.T) {
		mw := RateLimiting(1, 1)

		_, err := doRateLimitedRequest(t, mw, "10.0.0.3:1234")
		require.NoError(t, err)

		// 다른 IP는 앞선 IP의 소비량에 영향을 받지 않는다.
		rec, err := doRateLimitedRequest(t, mw, "10.0.0.4:1234")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("잘못된 설정 값은 패닉이 발생한다", func(t *testing.T) {
		assert.Panics(t, func() { RateLimiting(0, 10) })
		assert.Panics(t, func() { RateLimiting(10, 0) })
	})
}

func TestPanicRecovery(t *testing.T) {
	t.Run("핸들러의 panic을 복구하고 에러를 반환한다", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := PanicRecovery()(func(c echo.Context) error {
			panic("예상하지 못한 실패")
		})

		err := handler(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "복구되지 않은 실패")
	})

	t.Run("panic이 없으면 핸들러 결과를 그대로 반환한다", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := PanicRecovery()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
