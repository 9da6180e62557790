// Package naver 네이버 쇼핑 검색 오픈API 클라이언트입니다.
//
// https://developers.naver.com/docs/serviceapi/search/shopping/shopping.md
package naver

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/giftdeum/gift-server/internal/fetcher"
	"github.com/giftdeum/gift-server/internal/model"
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	"github.com/giftdeum/gift-server/internal/pkg/paging"
	"github.com/giftdeum/gift-server/internal/scraper"
	applog "github.com/giftdeum/gift-server/pkg/log"
	"github.com/giftdeum/gift-server/pkg/strutil"
)

// component 네이버 검색 클라이언트 로깅용 컴포넌트 이름
const component = "naver"

// searchEndpoint 쇼핑 검색 API의 엔드포인트 URL입니다.
const searchEndpoint = "https://openapi.naver.com/v1/search/shop.json"

// SearchResult 쇼핑 검색 API의 한 페이지 조회 결과입니다.
type SearchResult struct {
	// Total 검색 조건에 해당하는 전체 상품 수입니다.
	Total int

	// Items 조회된 상품 레코드 목록입니다.
	// 가격 파싱에 실패한 상품은 제외되므로 요청한 페이지 크기보다 적을 수 있습니다.
	Items []*model.ExternalProductRecord
}

// searchResponse 쇼핑 검색 API의 JSON 응답입니다.
type searchResponse struct {
	Total int          `json:"total"`
	Items []searchItem `json:"items"`
}

// searchItem 쇼핑 검색 API 응답의 개별 상품입니다.
type searchItem struct {
	// Title 상품명입니다. 검색어와 일치하는 부분이 <b> 태그로 감싸져 내려옵니다.
	Title string `json:"title"`

	Link  string `json:"link"`
	Image string `json:"image"`

	// LowPrice 최저가입니다. 숫자이지만 문자열로 내려옵니다.
	LowPrice string `json:"lprice"`

	MallName  string `json:"mallName"`
	ProductID string `json:"productId"`
}

// Client 쇼핑 검색 API 클라이언트입니다.
type Client struct {
	scraper      scraper.JSONScraper
	endpoint     string
	clientID     string
	clientSecret string
	pageSize     int
}

// Option Client의 동작을 제어하는 함수형 옵션입니다.
type Option func(*Client)

// WithEndpoint 검색 API의 엔드포인트 URL을 변경합니다. 테스트 용도로 사용됩니다.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// NewClient 새로운 쇼핑 검색 API 클라이언트를 생성합니다.
func NewClient(s scraper.JSONScraper, clientID, clientSecret string, pageSize int, opts ...Option) *Client {
	c := &Client{
		scraper:      s,
		endpoint:     searchEndpoint,
		clientID:     clientID,
		clientSecret: clientSecret,
		pageSize:     pageSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// PageSize 한 페이지에 조회되는 상품 수를 반환합니다.
func (c *Client) PageSize() int {
	return c.pageSize
}

// Search 쇼핑 검색 API로 상품을 검색합니다.
//
// page는 1부터 시작하며, API의 start 파라미터(1-based offset)로 변환됩니다.
// 상품명의 HTML 태그는 제거되고 가격 문자열은 정수로 파싱되며, 가격을 파싱할 수
// 없는 상품은 경고 로그와 함께 결과에서 제외됩니다.
func (c *Client) Search(ctx context.Context, query string, page int, sort model.Sort) (*SearchResult, error) {
	if query == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "검색어는 비워둘 수 없습니다.")
	}
	if page < 1 {
		return nil, apperrors.Newf(apperrors.InvalidInput, "페이지 번호는 1 이상이어야 합니다.(입력값:%d)", page)
	}
	if !sort.Valid() {
		return nil, apperrors.Newf(apperrors.InvalidInput, "지원되지 않는 정렬 방식입니다.(입력값:%s)", sort)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("display", strconv.Itoa(c.pageSize))
	params.Set("start", strconv.Itoa(paging.Skip(page, c.pageSize)+1))
	params.Set("sort", string(sort))

	header := http.Header{}
	header.Set("X-Naver-Client-Id", c.clientID)
	header.Set("X-Naver-Client-Secret", c.clientSecret)

	var resp searchResponse
	err := c.scraper.FetchJSON(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil, header, &resp)
	if err != nil {
		return nil, c.wrapSearchError(ctx, err, query)
	}

	result := &SearchResult{
		Total: resp.Total,
		Items: make([]*model.ExternalProductRecord, 0, len(resp.Items)),
	}
	for _, item := range resp.Items {
		price, err := strutil.ParsePrice(item.LowPrice)
		if err != nil {
			applog.WithComponent(component).WithContext(ctx).
				WithField("query", query).
				WithField("product_id", item.ProductID).
				WithField("lprice", item.LowPrice).
				Warn("가격을 파싱할 수 없어 해당 상품을 결과에서 제외합니다.")
			continue
		}

		result.Items = append(result.Items, &model.ExternalProductRecord{
			Title:          strutil.StripHTMLTags(item.Title),
			Image:          item.Image,
			Link:           item.Link,
			Price:          int64(price),
			Seller:         item.MallName,
			NaverProductID: item.ProductID,
		})
	}

	return result, nil
}

// wrapSearchError 검색 API 호출 실패를 업스트림 장애 에러로 변환합니다.
// 에러 응답 본문에 담긴 API 에러 코드와 메시지는 로그 필드로 남깁니다.
func (c *Client) wrapSearchError(ctx context.Context, err error, query string) error {
	entry := applog.WithComponent(component).WithContext(ctx).
		WithField("query", query).
		WithError(err)

	var statusErr *fetcher.HTTPStatusError
	if errors.As(err, &statusErr) {
		if body := statusErr.BodySnippet; gjson.Valid(body) {
			entry = entry.
				WithField("error_code", gjson.Get(body, "errorCode").String()).
				WithField("error_message", gjson.Get(body, "errorMessage").String())
		}
		entry = entry.WithField("status_code", statusErr.StatusCode)
	}
	entry.Error("네이버 쇼핑 검색 API 호출이 실패하였습니다.")

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return apperrors.Wrapf(err, apperrors.Unavailable, "네이버 쇼핑 검색 API 호출이 실패하였습니다.(검색어:%s)", query)
}
