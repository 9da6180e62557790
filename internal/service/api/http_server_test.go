package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/giftdeum/gift-server/internal/service/api/httputil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPServer(t *testing.T) {
	t.Run("존재하지 않는 경로는 표준 에러 응답을 반환한다", func(t *testing.T) {
		e := NewHTTPServer(HTTPServerConfig{AllowOrigins: []string{"*"}})

		req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusNotFound, resp.ResultCode)
	})

	t.Run("응답에 Server 헤더를 노출하지 않는다", func(t *testing.T) {
		e := NewHTTPServer(HTTPServerConfig{AllowOrigins: []string{"*"}})
		e.GET("/ping", func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Server"))
	})

	t.Run("보안 헤더가 모든 응답에 추가된다", func(t *testing.T) {
		e := NewHTTPServer(HTTPServerConfig{AllowOrigins: []string{"*"}})

		req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	})

	t.Run("요청 제한 설정이 0이면 제한 없이 처리된다", func(t *testing.T) {
		e := NewHTTPServer(HTTPServerConfig{AllowOrigins: []string{"*"}})

		for i := 0; i < 50; i++ {
			req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
		}
	})

	t.Run("요청 제한 설정이 있으면 초과 요청에 429를 반환한다", func(t *testing.T) {
		e := NewHTTPServer(HTTPServerConfig{
			AllowOrigins:       []string{"*"},
			RateLimitPerSecond: 1,
			RateLimitBurst:     1,
		})

		req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
		req.RemoteAddr = "10.1.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/unknown", nil)
		req.RemoteAddr = "10.1.0.1:1234"
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	})
}
