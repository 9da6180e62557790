// Package crawler 헤드리스 브라우저로 쇼핑 검색 결과 페이지를 스크래핑합니다.
//
// 대상 페이지는 클라이언트 사이드 렌더링과 디바운스된 가격 필터를 사용하므로,
// 페이지 조작 사이에 명시적인 안정화 대기가 필요합니다. 대기 시간은 모두
// 설정값으로 관리됩니다.
package crawler

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/giftdeum/gift-server/internal/config"
	"github.com/giftdeum/gift-server/internal/model"
	"github.com/giftdeum/gift-server/internal/scraper"
	applog "github.com/giftdeum/gift-server/pkg/log"
)

// searchURLFormat 검색 결과 페이지의 URL 템플릿입니다. 검색어는 URL 인코딩되어 삽입됩니다.
const searchURLFormat = "https://search.shopping.naver.com/search/all?query=%s"

// renderedContentType 브라우저가 직렬화한 DOM의 Content-Type입니다.
// 렌더링된 HTML은 원본 페이지의 인코딩과 무관하게 항상 UTF-8로 직렬화됩니다.
const renderedContentType = "text/html; charset=utf-8"

// 검색 결과 페이지의 고정 셀렉터 목록입니다.
// 대상 사이트는 빌드마다 클래스 이름의 해시 접미사가 바뀌므로 접두사 매칭을 사용합니다.
const (
	minPriceInputSelector = `div[class^="filterPrice"] input[placeholder="최소"]`
	maxPriceInputSelector = `div[class^="filterPrice"] input[placeholder="최대"]`
	priceSubmitSelector   = `div[class^="filterPrice"] button[type="submit"]`
)

// Crawler 쇼핑 검색 결과 페이지의 스크래핑 기반 상품 검색기입니다.
type Crawler struct {
	manager *Manager
	cfg     *config.CrawlerConfig
	html    scraper.HTMLScraper
}

// New 새로운 Crawler를 생성합니다. html이 nil이면 패닉이 발생합니다.
func New(cfg *config.CrawlerConfig, html scraper.HTMLScraper) *Crawler {
	if html == nil {
		panic("HTMLScraper는 필수입니다")
	}

	return &Crawler{
		manager: NewManager(cfg),
		cfg:     cfg,
		html:    html,
	}
}

// Search 검색어와 가격 범위로 대상 사이트를 스크래핑하여 상품 레코드를 추출합니다.
//
// 반환되는 에러는 다음과 같이 분류됩니다.
//   - ErrNavigationTimeout: 페이지 이동이 제한 시간을 초과한 경우
//   - ErrNoResultsAvailable: 검색 결과가 존재하지 않는 경우
//   - 그 외 실패: 원인을 감싼 ExecutionFailed 에러
func (c *Crawler) Search(ctx context.Context, query string, minPrice, maxPrice int64) ([]*model.ExternalProductRecord, error) {
	searchURL := fmt.Sprintf(searchURLFormat, url.QueryEscape(query))

	return WithSession(ctx, c.manager, func(session *Session) ([]*model.ExternalProductRecord, error) {
		session.transition(StateNavigating)

		page := session.page
		if err := page.Timeout(c.cfg.NavigationTimeoutValue()).Navigate(searchURL); err != nil {
			return nil, navigationError(err, "검색 결과 페이지로의 이동이 실패하였습니다.(URL:%s)", searchURL)
		}
		if err := page.Timeout(c.cfg.NavigationTimeoutValue()).WaitLoad(); err != nil {
			return nil, navigationError(err, "검색 결과 페이지의 로드가 실패하였습니다.(URL:%s)", searchURL)
		}

		session.transition(StateReady)

		// 가격 필터 컨트롤은 검색 결과가 있을 때에만 렌더링된다.
		minInput, err := waitElement(page, minPriceInputSelector, c.cfg.FilterWaitValue())
		if err != nil {
			applog.WithComponent(component).WithContext(ctx).
				WithField("query", query).
				Debug("가격 필터 컨트롤이 나타나지 않아 결과 없음으로 처리합니다.")

			return nil, ErrNoResultsAvailable
		}

		if minPrice > 0 || maxPrice > 0 {
			if err := c.applyPriceFilter(ctx, page, minInput, minPrice, maxPrice); err != nil {
				return nil, err
			}
		}

		session.transition(StateExtracting)

		html, err := page.HTML()
		if err != nil {
			return nil, newErrScrapeFailed(err, "렌더링된 페이지의 HTML을 가져올 수 없습니다.(URL:%s)", searchURL)
		}

		doc, err := c.html.ParseReader(strings.NewReader(html), renderedContentType)
		if err != nil {
			return nil, newErrScrapeFailed(err, "렌더링된 페이지의 파싱이 실패하였습니다.(URL:%s)", searchURL)
		}

		records := extractProducts(doc, scrapeLimit(c.cfg.ScrapeLimit))

		applog.WithComponent(component).WithContext(ctx).
			WithField("query", query).
			WithField("extracted", len(records)).
			Debug("검색 결과의 추출이 완료되었습니다.")

		return records, nil
	})
}

// applyPriceFilter 가격 필터 입력란에 최소/최대 가격을 입력하고 필터를 적용합니다.
//
// 대상 페이지는 입력을 클라이언트 사이드에서 디바운스 처리하므로, 입력과 제출
// 사이에 안정화 대기가 필요합니다. 제출 후에도 결과 목록이 다시 렌더링될 때까지
// 한 번 더 대기합니다.
func (c *Crawler) applyPriceFilter(ctx context.Context, page *rod.Page, minInput *rod.Element, minPrice, maxPrice int64) error {
	if minPrice > 0 {
		if err := typeInto(minInput, strconv.FormatInt(minPrice, 10)); err != nil {
			return newErrScrapeFailed(err, "최소 가격의 입력이 실패하였습니다.")
		}
	}

	if maxPrice > 0 {
		maxInput, err := waitElement(page, maxPriceInputSelector, c.cfg.FilterWaitValue())
		if err != nil {
			return newErrScrapeFailed(err, "최대 가격 입력란을 찾을 수 없습니다.")
		}
		if err := typeInto(maxInput, strconv.FormatInt(maxPrice, 10)); err != nil {
			return newErrScrapeFailed(err, "최대 가격의 입력이 실패하였습니다.")
		}
	}

	if err := settle(ctx, c.cfg.SettleDelayValue()); err != nil {
		return err
	}

	submit, err := waitElement(page, priceSubmitSelector, c.cfg.FilterWaitValue())
	if err != nil {
		return newErrScrapeFailed(err, "가격 필터 적용 버튼을 찾을 수 없습니다.")
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return newErrScrapeFailed(err, "가격 필터 적용 버튼의 클릭이 실패하였습니다.")
	}

	return settle(ctx, c.cfg.SettleDelayValue())
}

// waitElement 제한 시간 내에 셀렉터와 일치하는 요소가 나타나기를 기다립니다.
func waitElement(page *rod.Page, selector string, timeout time.Duration) (*rod.Element, error) {
	return page.Timeout(timeout).Element(selector)
}

// typeInto 입력란의 기존 내용을 모두 선택한 뒤 텍스트를 입력합니다.
func typeInto(el *rod.Element, text string) error {
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(text)
}

// settle 클라이언트 사이드 디바운스가 끝나기를 기다립니다.
func settle(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// scrapeLimit 설정된 추출 상한을 반환합니다. 0 이하이면 기본값을 사용합니다.
func scrapeLimit(limit int) int {
	if limit <= 0 {
		return config.DefaultScrapeLimit
	}
	return limit
}
