package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	"github.com/giftdeum/gift-server/pkg/cronx"
	"github.com/go-playground/validator/v10"
)

// HTTPRetryConfig HTTP 요청 실패 시 재시도 횟수와 대기 시간을 정의하는 설정 구조체
type HTTPRetryConfig struct {
	MaxRetries int    `json:"max_retries"`
	RetryDelay string `json:"retry_delay"`

	// RandomizeUserAgent 외부 HTTP 요청마다 브라우저 User-Agent를 랜덤으로 주입할지 여부입니다.
	RandomizeUserAgent bool `json:"randomize_user_agent"`
}

func (c *HTTPRetryConfig) validate() error {
	if c.MaxRetries < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("HTTP 최대 재시도 횟수(max_retries)는 0 이상이어야 합니다: %d", c.MaxRetries))
	}
	if _, err := time.ParseDuration(c.RetryDelay); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("HTTP 재시도 대기 시간(retry_delay) 설정이 올바르지 않습니다: '%s' (예: 1s, 500ms)", c.RetryDelay))
	}
	return nil
}

// RetryDelayValue 재시도 대기 시간을 time.Duration 값으로 반환합니다.
// 설정 로드 시 이미 검증된 값이므로 파싱 실패 시 기본값을 반환합니다.
func (c *HTTPRetryConfig) RetryDelayValue() time.Duration {
	d, err := time.ParseDuration(c.RetryDelay)
	if err != nil {
		d, _ = time.ParseDuration(DefaultRetryDelay)
	}
	return d
}

// NaverConfig 네이버 쇼핑 OpenAPI 연동에 필요한 인증 정보와 검색 기본값을 정의하는 설정 구조체
type NaverConfig struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
	PageSize     int    `json:"page_size" validate:"min=1,max=100"`
}

func (c *NaverConfig) validate() error {
	if err := validate.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				switch fieldErr.StructField() {
				case "ClientID":
					return apperrors.New(apperrors.InvalidInput, "네이버 OpenAPI 클라이언트 ID(client_id)가 설정되지 않았습니다")
				case "ClientSecret":
					return apperrors.New(apperrors.InvalidInput, "네이버 OpenAPI 클라이언트 시크릿(client_secret)이 설정되지 않았습니다")
				case "PageSize":
					return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("검색 페이지 크기(page_size)는 1에서 100 사이의 값이어야 합니다: %d", c.PageSize))
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "네이버 OpenAPI 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}
	return nil
}

// CrawlerConfig 헤드리스 브라우저 기반 스크래핑 동작을 제어하는 설정 구조체
//
// 모든 대기 시간 값은 Go duration 문자열 형식("120s", "500ms" 등)으로 기술합니다.
type CrawlerConfig struct {
	// NavigationTimeout 페이지 탐색이 이 시간을 초과하면 탐색 실패로 처리합니다.
	NavigationTimeout string `json:"navigation_timeout"`

	// FilterWait 검색 필터 적용 후 상품 목록이 갱신될 때까지 기다리는 시간입니다.
	FilterWait string `json:"filter_wait"`

	// SettleDelay 동적 렌더링 콘텐츠가 안정화될 때까지 기다리는 시간입니다.
	SettleDelay string `json:"settle_delay"`

	// ScrapeLimit 한 번의 스크래핑에서 수집하는 최대 상품 개수입니다.
	ScrapeLimit int `json:"scrape_limit"`

	// Headless 브라우저를 Headless 모드로 구동할지 여부입니다. 디버깅 시에만 false로 설정합니다.
	Headless bool `json:"headless"`

	// BrowserPath 사용할 브라우저 실행 파일 경로입니다. 비워두면 자동으로 탐색합니다.
	BrowserPath string `json:"browser_path"`
}

func (c *CrawlerConfig) validate() error {
	for name, value := range map[string]string{
		"navigation_timeout": c.NavigationTimeout,
		"filter_wait":        c.FilterWait,
		"settle_delay":       c.SettleDelay,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("크롤링 대기 시간(%s) 설정이 올바르지 않습니다: '%s' (예: 120s, 500ms)", name, value))
		}
	}

	if c.ScrapeLimit < 1 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("스크래핑 수집 개수(scrape_limit)는 1 이상이어야 합니다: %d", c.ScrapeLimit))
	}

	return nil
}

// NavigationTimeoutValue 페이지 탐색 제한 시간을 time.Duration 값으로 반환합니다.
func (c *CrawlerConfig) NavigationTimeoutValue() time.Duration {
	return durationOrDefault(c.NavigationTimeout, DefaultNavigationTimeout)
}

// FilterWaitValue 필터 적용 대기 시간을 time.Duration 값으로 반환합니다.
func (c *CrawlerConfig) FilterWaitValue() time.Duration {
	return durationOrDefault(c.FilterWait, DefaultFilterWait)
}

// SettleDelayValue 렌더링 안정화 대기 시간을 time.Duration 값으로 반환합니다.
func (c *CrawlerConfig) SettleDelayValue() time.Duration {
	return durationOrDefault(c.SettleDelay, DefaultSettleDelay)
}

func durationOrDefault(value, fallback string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// DatabaseConfig PostgreSQL 접속 정보와 커넥션 풀 설정을 정의하는 설정 구조체
type DatabaseConfig struct {
	Host         string `json:"host" validate:"required"`
	Port         int    `json:"port" validate:"min=1,max=65535"`
	User         string `json:"user" validate:"required"`
	Password     string `json:"password"`
	Name         string `json:"name" validate:"required"`
	SSLMode      string `json:"ssl_mode" validate:"oneof=disable require verify-ca verify-full"`
	MaxOpenConns int    `json:"max_open_conns" validate:"min=1"`
	MaxIdleConns int    `json:"max_idle_conns" validate:"min=0"`
}

func (c *DatabaseConfig) validate() error {
	if err := validateStruct(c, "Database"); err != nil {
		return err
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("유휴 커넥션 수(max_idle_conns=%d)는 최대 커넥션 수(max_open_conns=%d)를 초과할 수 없습니다", c.MaxIdleConns, c.MaxOpenConns))
	}
	return nil
}

// DSN lib/pq 드라이버가 인식하는 접속 문자열을 생성합니다.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// NotifierConfig 텔레그램 등 다양한 알림 채널을 정의하는 설정 구조체
//
// 알림 채널이 하나도 정의되지 않은 경우 알림 발송 기능은 비활성화됩니다.
type NotifierConfig struct {
	DefaultNotifierID string           `json:"default_notifier_id"`
	Telegrams         []TelegramConfig `json:"telegrams"`
}

func (c *NotifierConfig) validate() ([]string, error) {
	if len(c.Telegrams) == 0 {
		if c.DefaultNotifierID != "" {
			return nil, apperrors.New(apperrors.NotFound, fmt.Sprintf("기본 NotifierID('%s')가 지정되었으나 정의된 Notifier가 없습니다", c.DefaultNotifierID))
		}
		return nil, nil
	}

	// Notifier 중복 ID 검사
	if err := checkUniqueField(c.Telegrams, "ID", "Notifier"); err != nil {
		return nil, err
	}

	// Telegrams 개별 유효성 검사
	for _, telegram := range c.Telegrams {
		if err := validateStruct(telegram, fmt.Sprintf("Telegram Notifier['%s']", telegram.ID)); err != nil {
			return nil, err
		}
	}

	var notifierIDs []string
	for _, telegram := range c.Telegrams {
		notifierIDs = append(notifierIDs, telegram.ID)
	}

	// 기본 Notifier ID 검사
	if !slices.Contains(notifierIDs, c.DefaultNotifierID) {
		return nil, apperrors.New(apperrors.NotFound, fmt.Sprintf("기본 NotifierID('%s')가 정의된 Notifier 목록에 존재하지 않습니다", c.DefaultNotifierID))
	}

	return notifierIDs, nil
}

// Enabled 알림 발송 기능의 활성화 여부를 반환합니다.
func (c *NotifierConfig) Enabled() bool {
	return len(c.Telegrams) > 0
}

// TelegramConfig 텔레그램 봇 토큰 및 채팅 ID 정보를 담는 설정 구조체
type TelegramConfig struct {
	ID       string `json:"id" validate:"required"`
	BotToken string `json:"bot_token" validate:"required,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required"`
}

// WatcherConfig 주기적으로 상품을 검색하여 변동을 감시하는 작업(Watch)들을 정의하는 설정 구조체
type WatcherConfig struct {
	// SnapshotDir 감시 작업의 직전 검색 결과 스냅샷이 저장되는 디렉터리입니다.
	SnapshotDir string `json:"snapshot_dir"`

	Watches []WatchConfig `json:"watches"`
}

func (c *WatcherConfig) validate(notifierIDs []string) error {
	if len(c.Watches) > 0 && strings.TrimSpace(c.SnapshotDir) == "" {
		return apperrors.New(apperrors.InvalidInput, "감시 작업 사용 시 스냅샷 저장 디렉터리(snapshot_dir)는 필수입니다")
	}

	// Watch 중복 ID 검사
	if err := checkUniqueField(c.Watches, "ID", "Watch"); err != nil {
		return err
	}

	for _, w := range c.Watches {
		// Watch 구조체 유효성 검사
		if err := validateStruct(w, fmt.Sprintf("Watch['%s']", w.ID)); err != nil {
			return err
		}

		// Cron 표현식 검증
		if err := cronx.Validate(w.TimeSpec); err != nil {
			return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("Watch['%s']의 스케줄러(time_spec) 설정이 유효하지 않습니다", w.ID))
		}

		// 가격 범위 검증
		if w.MaxPrice > 0 && w.MaxPrice < w.MinPrice {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("Watch['%s']의 최대 가격(max_price=%d)이 최소 가격(min_price=%d)보다 작습니다", w.ID, w.MaxPrice, w.MinPrice))
		}

		// Notifier 존재 여부 확인
		if w.NotifierID != "" && !slices.Contains(notifierIDs, w.NotifierID) {
			return apperrors.New(apperrors.NotFound, fmt.Sprintf("Watch['%s']에서 참조하는 NotifierID('%s')가 정의되지 않았습니다", w.ID, w.NotifierID))
		}
	}

	return nil
}

// WatchConfig 하나의 상품 감시 작업을 정의하는 구조체
type WatchConfig struct {
	ID       string `json:"id" validate:"required"`
	Title    string `json:"title"`
	Query    string `json:"query" validate:"required"`
	TimeSpec string `json:"time_spec" validate:"required"`

	// MinPrice, MaxPrice 감시 대상 상품의 가격 범위입니다. 0이면 해당 방향의 제한이 없습니다.
	MinPrice int `json:"min_price" validate:"min=0"`
	MaxPrice int `json:"max_price" validate:"min=0"`

	// IncludeKeywords 상품명에 반드시 포함되어야 하는 키워드 목록입니다.
	IncludeKeywords []string `json:"include_keywords"`

	// ExcludeKeywords 상품명에 포함되면 제외되는 키워드 목록입니다.
	ExcludeKeywords []string `json:"exclude_keywords"`

	// NotifierID 변동 알림을 발송할 Notifier ID입니다. 비워두면 기본 Notifier를 사용합니다.
	NotifierID string `json:"notifier_id"`

	// Data 감시 작업별 자유 형식 설정입니다. 해석은 Watcher 서비스가 담당합니다.
	Data map[string]any `json:"data"`
}

// APIConfig 상품 조회 REST API 서버의 동작을 정의하는 설정 구조체
type APIConfig struct {
	WS        WSConfig        `json:"ws"`
	CORS      CORSConfig      `json:"cors"`
	RateLimit RateLimitConfig `json:"rate_limit"`
}

func (c *APIConfig) validate() error {
	if err := c.WS.validate(); err != nil {
		return err
	}
	if err := c.CORS.validate(); err != nil {
		return err
	}
	return c.RateLimit.validate()
}

// VerifyRecommendations 운영 안정성 관점에서 권장 설정 준수 여부를 진단합니다.
func (c *APIConfig) VerifyRecommendations() []string {
	return c.WS.VerifyRecommendations()
}

// WSConfig 웹 서버의 포트 및 TLS(HTTPS) 보안 설정을 정의하는 구조체
type WSConfig struct {
	TLSServer   bool   `json:"tls_server"`
	TLSCertFile string `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile  string `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`
	ListenPort  int    `json:"listen_port" validate:"min=1,max=65535"`
}

func (c *WSConfig) validate() error {
	if err := validate.Struct(c); err != nil {
		// Validator 에러를 사용자 친화적인 메시지로 변환한다.
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				switch fieldErr.StructField() {
				case "ListenPort":
					return apperrors.New(apperrors.InvalidInput, "웹 서버 포트(listen_port)는 1에서 65535 사이의 값이어야 합니다")
				case "TLSCertFile":
					switch fieldErr.Tag() {
					case "required_if":
						return apperrors.New(apperrors.InvalidInput, "TLS 서버 활성화 시 인증서 파일 경로(tls_cert_file)는 필수입니다")
					case "file":
						return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 인증서 파일(tls_cert_file)을 찾을 수 없습니다: '%v'", fieldErr.Value()))
					default:
						return apperrors.New(apperrors.InvalidInput, "TLS 인증서 파일 경로(tls_cert_file) 설정이 올바르지 않습니다")
					}
				case "TLSKeyFile":
					switch fieldErr.Tag() {
					case "required_if":
						return apperrors.New(apperrors.InvalidInput, "TLS 서버 활성화 시 키 파일 경로(tls_key_file)는 필수입니다")
					case "file":
						return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("지정된 TLS 키 파일(tls_key_file)을 찾을 수 없습니다: '%v'", fieldErr.Value()))
					default:
						return apperrors.New(apperrors.InvalidInput, "TLS 키 파일 경로(tls_key_file) 설정이 올바르지 않습니다")
					}
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "웹 서버 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}

	return nil
}

func (c *WSConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.ListenPort))
	}

	return warnings
}

// CORSConfig 웹 브라우저의 교차 출처 리소스 공유(CORS) 정책을 설정하는 구조체
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate() error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 도메인(allow_origins) 목록이 비어있습니다")
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" {
			if len(c.AllowOrigins) > 1 {
				return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
			}

			// 와일드카드만 있는 경우는 유효함 (validator skip)
			continue
		}
	}

	// 각 Origin 유효성 검사
	if err := validate.Struct(c); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range validationErrors {
				if fieldErr.Tag() == "cors_origin" {
					return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("CORS Origin 형식이 올바르지 않습니다: '%v' (형식: Scheme://Host[:Port], 예: https://example.com)", fieldErr.Value()))
				}
			}
		}
		return apperrors.Wrap(err, apperrors.InvalidInput, "CORS 설정 검증 중 알 수 없는 오류가 발생했습니다")
	}
	return nil
}

// RateLimitConfig API 요청 속도 제한 정책을 정의하는 구조체
//
// RequestsPerSecond가 0이면 속도 제한이 비활성화됩니다.
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" validate:"min=0"`
	Burst             int     `json:"burst" validate:"min=0"`
}

func (c *RateLimitConfig) validate() error {
	if err := validateStruct(c, "RateLimit"); err != nil {
		return err
	}
	if c.RequestsPerSecond > 0 && c.Burst < 1 {
		return apperrors.New(apperrors.InvalidInput, "속도 제한 사용 시 버스트 크기(burst)는 1 이상이어야 합니다")
	}
	return nil
}
