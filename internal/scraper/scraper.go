// Package scraper Fetcher 위에서 HTML 문서 파싱과 JSON API 응답 디코딩을 담당하는 계층입니다.
//
// 주요 기능:
//   - 자동 인코딩 감지 및 변환 (EUC-KR, UTF-8 등)
//   - 응답 크기 제한을 통한 메모리 보호
//   - JSON API의 에러 페이지(HTML) 반환 감지
package scraper

import (
	"context"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/giftdeum/gift-server/internal/fetcher"
)

// component 스크래퍼 로깅용 컴포넌트 이름
const component = "scraper"

// defaultMaxBodySize HTTP 응답 본문의 기본 최대 크기(10MB)입니다.
// 메모리 사용량을 제어하고 악의적인 대용량 데이터로부터 시스템을 보호하기 위해 사용됩니다.
const defaultMaxBodySize = 10 * 1024 * 1024

// HTMLScraper HTML 페이지 스크래핑을 위한 인터페이스입니다.
// goquery.Document를 반환하여 CSS 선택자 기반의 데이터 추출을 지원합니다.
type HTMLScraper interface {
	// FetchHTMLDocument 지정된 URL로 GET 요청을 보내 HTML 문서를 가져오고, 파싱된 goquery.Document를 반환합니다.
	// 응답 헤더의 Content-Type을 분석하여 비 UTF-8 인코딩 페이지도 자동으로 변환합니다.
	FetchHTMLDocument(ctx context.Context, urlStr string, header http.Header) (*goquery.Document, error)

	// ParseReader io.Reader로부터 HTML 문서를 파싱합니다.
	// 이미 메모리에 로드된 HTML 데이터를 파싱할 때 사용하며, contentType은 인코딩 감지에 사용됩니다.
	ParseReader(r io.Reader, contentType string) (*goquery.Document, error)
}

// JSONScraper JSON API 스크래핑을 위한 인터페이스입니다.
type JSONScraper interface {
	// FetchJSON 지정된 URL로 HTTP 요청을 보내 JSON 응답을 가져오고, 지정된 구조체(v)로 디코딩합니다.
	//
	// v는 반드시 nil이 아닌 포인터여야 하며, 서버가 JSON 대신 HTML 에러 페이지를
	// 반환한 경우 이를 감지하여 명확한 에러를 반환합니다.
	FetchJSON(ctx context.Context, method, urlStr string, body io.Reader, header http.Header, v any) error
}

// Scraper 웹 페이지 스크래핑을 위한 통합 인터페이스입니다.
type Scraper interface {
	HTMLScraper
	JSONScraper
}

// scraper Scraper 인터페이스의 구현체입니다.
type scraper struct {
	// fetcher 실제 HTTP 요청을 수행하는 컴포넌트입니다.
	fetcher fetcher.Fetcher

	// maxResponseBodySize HTTP 응답 본문의 최대 읽기 크기(바이트)입니다.
	// 이 값을 초과하는 응답은 잘린 것으로 간주하여 에러 처리됩니다.
	maxResponseBodySize int64
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Scraper = (*scraper)(nil)

// Option scraper의 동작을 제어하는 함수형 옵션입니다.
type Option func(*scraper)

// WithMaxResponseBodySize HTTP 응답 본문의 최대 읽기 크기를 설정합니다.
// 0 이하의 값은 무시됩니다.
func WithMaxResponseBodySize(size int64) Option {
	return func(s *scraper) {
		if size > 0 {
			s.maxResponseBodySize = size
		}
	}
}

// New 새로운 Scraper 인터페이스 구현체를 생성합니다.
// f가 nil이면 패닉이 발생합니다.
func New(f fetcher.Fetcher, opts ...Option) Scraper {
	if f == nil {
		panic("Fetcher는 필수입니다")
	}

	s := &scraper{
		fetcher:             f,
		maxResponseBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// fetch 요청을 수행하고 응답 본문을 크기 제한 내에서 메모리로 읽어들입니다.
// 반환값의 truncated는 응답이 제한 크기를 초과하여 잘렸음을 나타냅니다.
func (s *scraper) fetch(ctx context.Context, method, urlStr string, body io.Reader, header http.Header, defaultAccept string) (resp *http.Response, data []byte, truncated bool, err error) {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, nil, false, err
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if defaultAccept != "" && req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", defaultAccept)
	}

	resp, err = s.fetcher.Do(req)
	if err != nil {
		return nil, nil, false, err
	}
	defer resp.Body.Close()

	// 제한 크기보다 1바이트 더 읽어서 초과 여부를 판별한다.
	data, err = io.ReadAll(io.LimitReader(resp.Body, s.maxResponseBodySize+1))
	if err != nil {
		return nil, nil, false, err
	}
	if int64(len(data)) > s.maxResponseBodySize {
		return resp, data[:s.maxResponseBodySize], true, nil
	}

	return resp, data, false, nil
}
