package fetcher

import (
	"time"
)

// Config Fetcher 체인을 구성하기 위한 설정 옵션을 정의하는 구조체입니다.
type Config struct {
	// Timeout HTTP 요청 전체에 대한 타임아웃입니다. 0이면 기본값(30초)을 사용합니다.
	Timeout time.Duration

	// ProxyURL 프록시 서버 주소입니다. 빈 문자열이면 프록시를 사용하지 않습니다.
	ProxyURL string

	// MaxRetries 최대 재시도 횟수입니다. 0이면 재시도하지 않습니다.
	MaxRetries int

	// MinRetryDelay 재시도 대기 시간의 최소값(지수 백오프 시작점)입니다.
	MinRetryDelay time.Duration

	// MaxRetryDelay 재시도 대기 시간의 최대값(지수 백오프 상한선)입니다.
	MaxRetryDelay time.Duration

	// AllowedStatusCodes 허용할 HTTP 응답 상태 코드 목록입니다. 비어있으면 200 OK만 허용합니다.
	AllowedStatusCodes []int

	// EnableUserAgentRandomization 요청마다 User-Agent를 랜덤으로 주입할지 여부입니다.
	EnableUserAgentRandomization bool

	// UserAgents User-Agent 랜덤 주입 시 사용할 목록입니다. 비어있으면 내장 목록을 사용합니다.
	UserAgents []string

	// DisableLogging HTTP 요청/응답 로깅을 비활성화합니다.
	DisableLogging bool
}

// New 주요 설정값(재시도 횟수, 재시도 대기 시간)만으로 간편하게 Fetcher를 생성합니다.
// 복잡한 설정이 필요한 경우에는 NewFromConfig 함수를 직접 사용하는 것을 권장합니다.
func New(maxRetries int, minRetryDelay time.Duration, opts ...Option) Fetcher {
	return NewFromConfig(Config{
		MaxRetries:    maxRetries,
		MinRetryDelay: minRetryDelay,
	}, opts...)
}

// NewFromConfig Config를 기반으로 최적화된 Fetcher 실행 체인을 생성합니다.
//
// Fetcher 체인은 책임 연쇄 패턴을 따르며, 다음 순서로 구성됩니다 (바깥쪽 -> 안쪽):
//
//  1. LoggingFetcher    (관찰): 모든 시도와 지연을 포함한 전체 요청 생애주기를 기록
//  2. UserAgentFetcher  (보조): 각 요청에 User-Agent를 부여
//  3. RetryFetcher      (제어): 실패 시 지수 백오프 전략에 따라 재시도를 총괄
//  4. StatusCodeFetcher (검증): HTTP 응답 상태 코드의 유효성을 검사
//  5. HTTPFetcher       (전송): 실제 네트워크 I/O를 담당
//
// 상태 코드 검증은 각 시도마다 수행되어야 하므로 RetryFetcher 안쪽에 위치하고,
// User-Agent 주입은 재시도 시에도 동일한 값을 유지하도록 RetryFetcher 바깥에 위치합니다.
func NewFromConfig(cfg Config, opts ...Option) Fetcher {
	var mergedOpts []Option
	if cfg.Timeout > 0 {
		mergedOpts = append(mergedOpts, WithTimeout(cfg.Timeout))
	}
	if cfg.ProxyURL != "" {
		mergedOpts = append(mergedOpts, WithProxy(cfg.ProxyURL))
	}
	// 추가 옵션을 마지막에 적용하여 Config 기반 옵션을 덮어쓸 수 있도록 함
	mergedOpts = append(mergedOpts, opts...)

	var f Fetcher = NewHTTPFetcher(mergedOpts...)
	f = NewStatusCodeFetcher(f, cfg.AllowedStatusCodes...)
	f = NewRetryFetcher(f, cfg.MaxRetries, cfg.MinRetryDelay, cfg.MaxRetryDelay)
	if cfg.EnableUserAgentRandomization {
		f = NewUserAgentFetcher(f, cfg.UserAgents)
	}
	if !cfg.DisableLogging {
		f = NewLoggingFetcher(f)
	}

	return f
}
