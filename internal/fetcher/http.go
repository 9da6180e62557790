package fetcher

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// defaultTimeout HTTP 요청 전체(연결 수립부터 응답 본문 수신까지)에 대한 기본 제한 시간입니다.
	defaultTimeout = 30 * time.Second

	// defaultMaxRedirects HTTP 클라이언트가 따라가는 최대 리다이렉트(3xx) 횟수 기본값입니다.
	defaultMaxRedirects = 10
)

// Option HTTPFetcher의 내부 동작을 제어하는 함수형 옵션입니다.
type Option func(*httpOptions)

type httpOptions struct {
	timeout      time.Duration
	proxyURL     string
	maxRedirects int
}

// WithTimeout HTTP 요청 전체에 대한 타임아웃을 설정합니다.
// 0은 무한 대기, 음수는 기본값으로 보정됩니다.
func WithTimeout(timeout time.Duration) Option {
	return func(o *httpOptions) {
		if timeout < 0 {
			timeout = defaultTimeout
		}
		o.timeout = timeout
	}
}

// WithProxy 프록시 서버 주소를 설정합니다. 형식: "http://host:port"
// 주소가 유효하지 않으면 프록시 없이 동작합니다.
func WithProxy(proxyURL string) Option {
	return func(o *httpOptions) {
		o.proxyURL = proxyURL
	}
}

// WithMaxRedirects 최대 리다이렉트 횟수를 설정합니다. 0은 리다이렉트를 허용하지 않습니다.
func WithMaxRedirects(maxRedirects int) Option {
	return func(o *httpOptions) {
		if maxRedirects < 0 {
			maxRedirects = defaultMaxRedirects
		}
		o.maxRedirects = maxRedirects
	}
}

// HTTPFetcher 실제 네트워크 I/O를 담당하는 Fetcher 체인의 최내곽 구현체입니다.
type HTTPFetcher struct {
	client *http.Client
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher 지정된 옵션으로 새로운 HTTPFetcher 인스턴스를 생성합니다.
// 옵션을 지정하지 않으면 30초 타임아웃의 기본 클라이언트를 사용합니다.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	options := &httpOptions{
		timeout:      defaultTimeout,
		maxRedirects: defaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(options)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if options.proxyURL != "" {
		if proxy, err := url.Parse(options.proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxy)
		}
	}

	maxRedirects := options.maxRedirects
	client := &http.Client{
		Timeout:   options.timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return &HTTPFetcher{client: client}
}

// Do HTTP 요청을 실행합니다.
func (f *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return f.client.Do(req)
}

// Close 유휴 커넥션을 모두 닫아 리소스를 정리합니다.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
