package naver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/giftdeum/gift-server/internal/fetcher"
	"github.com/giftdeum/gift-server/internal/model"
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	"github.com/giftdeum/gift-server/internal/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	f := fetcher.NewFromConfig(fetcher.Config{
		MaxRetries:     0,
		DisableLogging: true,
	})
	t.Cleanup(func() {
		_ = f.Close()
	})

	return NewClient(scraper.New(f), "test-client-id", "test-client-secret", 20, WithEndpoint(server.URL))
}

func TestClient_Search(t *testing.T) {
	t.Run("검색 결과를 상품 레코드로 변환한다", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-client-id", r.Header.Get("X-Naver-Client-Id"))
			assert.Equal(t, "test-client-secret", r.Header.Get("X-Naver-Client-Secret"))
			assert.Equal(t, "apple", r.URL.Query().Get("query"))
			assert.Equal(t, "20", r.URL.Query().Get("display"))
			assert.Equal(t, "1", r.URL.Query().Get("start"))
			assert.Equal(t, "sim", r.URL.Query().Get("sort"))

			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write([]byte(`{
				"total": 1,
				"items": [
					{"title": "<b>apple</b>", "image": "http://i/a.png", "link": "http://l/a", "lprice": "1000", "mallName": "Store", "productId": "abc"}
				]
			}`))
		})

		result, err := client.Search(context.Background(), "apple", 1, "sim")
		require.NoError(t, err)
		assert.Equal(t, 1, result.Total)
		require.Len(t, result.Items, 1)

		item := result.Items[0]
		assert.Equal(t, "apple", item.Title, "상품명의 HTML 태그는 제거되어야 한다")
		assert.Equal(t, int64(1000), item.Price)
		assert.Equal(t, "Store", item.Seller)
		assert.Equal(t, "abc", item.NaverProductID)
		assert.Equal(t, "http://i/a.png", item.Image)
		assert.Equal(t, "http://l/a", item.Link)
	})

	t.Run("두 번째 페이지는 start 파라미터 21로 조회한다", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "21", r.URL.Query().Get("start"))

			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write([]byte(`{"total": 100, "items": []}`))
		})

		result, err := client.Search(context.Background(), "머플러", 2, "date")
		require.NoError(t, err)
		assert.Equal(t, 100, result.Total)
		assert.Empty(t, result.Items)
	})

	t.Run("가격을 파싱할 수 없는 상품은 결과에서 제외한다", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write([]byte(`{
				"total": 2,
				"items": [
					{"title": "정상 상품", "lprice": "19,900원", "productId": "p1"},
					{"title": "가격 없는 상품", "lprice": "가격문의", "productId": "p2"}
				]
			}`))
		})

		result, err := client.Search(context.Background(), "선물", 1, "sim")
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "정상 상품", result.Items[0].Title)
		assert.Equal(t, int64(19900), result.Items[0].Price)
	})

	t.Run("API가 에러를 반환하면 Unavailable 에러로 변환한다", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"errorMessage": "Rate limit exceeded", "errorCode": "012"}`))
		})

		_, err := client.Search(context.Background(), "선물", 1, "sim")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	})

	t.Run("입력값 검증에 실패하면 InvalidInput 에러가 발생한다", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			t.Error("요청이 발생하면 안 됩니다")
		})

		tests := []struct {
			name  string
			query string
			page  int
			sort  string
		}{
			{"빈 검색어", "", 1, "sim"},
			{"0 페이지", "선물", 0, "sim"},
			{"지원되지 않는 정렬", "선물", 1, "price"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := client.Search(context.Background(), tt.query, tt.page, model.Sort(tt.sort))
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
			})
		}
	})
}
