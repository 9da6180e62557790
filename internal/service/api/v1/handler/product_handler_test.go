package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/giftdeum/gift-server/internal/model"
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	"github.com/giftdeum/gift-server/internal/service/api/httputil"
	"github.com/giftdeum/gift-server/internal/service/product"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductProvider struct {
	page           *product.ProductPage
	recommendation *product.Recommendation
	err            error

	gotQuery  string
	gotPage   int
	gotSort   model.Sort
	gotMin    int64
	gotMax    int64
	gotTagIDs []int64
}

func (f *fakeProductProvider) FindMany(_ context.Context, query string, page int, sort model.Sort) (*product.ProductPage, error) {
	f.gotQuery = query
	f.gotPage = page
	f.gotSort = sort

	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeProductProvider) GetProducts(_ context.Context, query string, minPrice, maxPrice int64, tagIDs []int64) (*product.Recommendation, error) {
	f.gotQuery = query
	f.gotMin = minPrice
	f.gotMax = maxPrice
	f.gotTagIDs = tagIDs

	if f.err != nil {
		return nil, f.err
	}
	return f.recommendation, nil
}

func newTestContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

// badRequestMessage 핸들러가 반환한 400 에러의 응답 메시지를 추출합니다.
func badRequestMessage(t *testing.T, err error) string {
	t.Helper()

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)

	resp, ok := httpErr.Message.(httputil.ErrorResponse)
	require.True(t, ok)

	return resp.Message
}

func TestHandler_FindProducts(t *testing.T) {
	t.Run("정상적인 검색 요청을 처리한다", func(t *testing.T) {
		provider := &fakeProductProvider{
			page: &product.ProductPage{
				Products:   []*model.Product{{ID: 1, Title: "핸드크림 선물세트", Price: 12900}},
				PageSize:   20,
				Total:      41,
				TotalPages: 3,
			},
		}
		h := NewHandler(provider)

		c, rec := newTestContext(t, "/api/v1/products?query=핸드크림&page=2&sort=date")
		require.NoError(t, h.FindProducts(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "핸드크림", provider.gotQuery)
		assert.Equal(t, 2, provider.gotPage)
		assert.Equal(t, model.SortNewest, provider.gotSort)

		var page product.ProductPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Equal(t, 41, page.Total)
		assert.Len(t, page.Products, 1)
		assert.Equal(t, "핸드크림 선물세트", page.Products[0].Title)
	})

	t.Run("페이지와 정렬 방식 생략 시 기본값이 적용된다", func(t *testing.T) {
		provider := &fakeProductProvider{page: &product.ProductPage{PageSize: 20}}
		h := NewHandler(provider)

		c, _ := newTestContext(t, "/api/v1/products?query=선물")
		require.NoError(t, h.FindProducts(c))

		assert.Equal(t, 1, provider.gotPage)
		assert.Equal(t, model.SortRelevance, provider.gotSort)
	})

	t.Run("검색어 누락 시 400 에러를 반환한다", func(t *testing.T) {
		h := NewHandler(&fakeProductProvider{})

		c, _ := newTestContext(t, "/api/v1/products")
		err := h.FindProducts(c)

		assert.Contains(t, badRequestMessage(t, err), "검색어")
	})

	t.Run("허용되지 않는 정렬 방식은 400 에러를 반환한다", func(t *testing.T) {
		h := NewHandler(&fakeProductProvider{})

		c, _ := newTestContext(t, "/api/v1/products?query=선물&sort=price")
		err := h.FindProducts(c)

		assert.Contains(t, badRequestMessage(t, err), "정렬 방식")
	})

	t.Run("서비스 에러는 전역 에러 핸들러로 전파된다", func(t *testing.T) {
		provider := &fakeProductProvider{
			err: apperrors.New(apperrors.Unavailable, "쇼핑 검색 API 호출에 실패하였습니다"),
		}
		h := NewHandler(provider)

		c, _ := newTestContext(t, "/api/v1/products?query=선물")
		err := h.FindProducts(c)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	})
}

func TestHandler_RecommendProducts(t *testing.T) {
	t.Run("가격 범위와 태그를 포함한 추천 요청을 처리한다", func(t *testing.T) {
		provider := &fakeProductProvider{
			recommendation: &product.Recommendation{
				Keyword: "핸드크림",
				Items:   []*model.Product{{ID: 7, Title: "핸드크림", Price: 15000}},
			},
		}
		h := NewHandler(provider)

		c, rec := newTestContext(t, "/api/v1/products/recommend?query=핸드크림&min_price=10000&max_price=30000&tag_ids=1&tag_ids=3")
		require.NoError(t, h.RecommendProducts(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "핸드크림", provider.gotQuery)
		assert.Equal(t, int64(10000), provider.gotMin)
		assert.Equal(t, int64(30000), provider.gotMax)
		assert.Equal(t, []int64{1, 3}, provider.gotTagIDs)

		var recommendation product.Recommendation
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recommendation))
		assert.Equal(t, "핸드크림", recommendation.Keyword)
		assert.Len(t, recommendation.Items, 1)
	})

	t.Run("최소 가격이 최대 가격보다 크면 400 에러를 반환한다", func(t *testing.T) {
		h := NewHandler(&fakeProductProvider{})

		c, _ := newTestContext(t, "/api/v1/products/recommend?query=선물&min_price=50000&max_price=10000")
		err := h.RecommendProducts(c)

		assert.Contains(t, badRequestMessage(t, err), "최소 가격")
	})

	t.Run("검색어 누락 시 400 에러를 반환한다", func(t *testing.T) {
		h := NewHandler(&fakeProductProvider{})

		c, _ := newTestContext(t, "/api/v1/products/recommend")
		err := h.RecommendProducts(c)

		assert.Contains(t, badRequestMessage(t, err), "검색어")
	})
}

func TestNewHandler(t *testing.T) {
	t.Run("ProductProvider가 nil이면 패닉이 발생한다", func(t *testing.T) {
		assert.Panics(t, func() {
			NewHandler(nil)
		})
	})
}
