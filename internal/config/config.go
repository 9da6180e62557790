package config

import (
	"fmt"
	"os"
	"strings"

	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "gift-server"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// ------------------------------------------------------------------------------------------------
	// HTTP 재시도 정책 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultMaxRetries HTTP 요청 실패 시 최대 재시도 횟수 기본값
	DefaultMaxRetries = 3

	// DefaultRetryDelay 재시도 사이의 대기 시간 기본값
	DefaultRetryDelay = "2s"

	// ------------------------------------------------------------------------------------------------
	// 크롤링 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultNavigationTimeout 쇼핑몰 페이지 탐색(Navigation)에 허용되는 최대 대기 시간 기본값
	DefaultNavigationTimeout = "120s"

	// DefaultFilterWait 검색 필터가 적용되어 목록이 갱신될 때까지 기다리는 시간 기본값
	DefaultFilterWait = "500ms"

	// DefaultSettleDelay 동적 렌더링이 안정화될 때까지 기다리는 시간 기본값
	DefaultSettleDelay = "250ms"

	// DefaultScrapeLimit 스크래핑으로 수집하는 상품 개수 기본값
	DefaultScrapeLimit = 4

	// DefaultSearchPageSize 네이버 쇼핑 검색 API의 페이지당 결과 개수 기본값
	DefaultSearchPageSize = 20
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug     bool            `json:"debug"`
	HTTPRetry HTTPRetryConfig `json:"http_retry"`
	Naver     NaverConfig     `json:"naver"`
	Crawler   CrawlerConfig   `json:"crawler"`
	Database  DatabaseConfig  `json:"database"`
	Notifiers NotifierConfig  `json:"notifiers"`
	Watcher   WatcherConfig   `json:"watcher"`
	API       APIConfig       `json:"api"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate() error {
	// HTTP 재시도 정책 유효성 검사
	if err := c.HTTPRetry.validate(); err != nil {
		return err
	}

	// 네이버 쇼핑 OpenAPI 인증 정보 유효성 검사
	if err := c.Naver.validate(); err != nil {
		return err
	}

	// 크롤링 설정 유효성 검사
	if err := c.Crawler.validate(); err != nil {
		return err
	}

	// 데이터베이스 설정 유효성 검사
	if err := c.Database.validate(); err != nil {
		return err
	}

	// Notifiers 유효성 검사
	notifierIDs, err := c.Notifiers.validate()
	if err != nil {
		return err
	}

	// 상품 감시 작업 유효성 검사
	if err := c.Watcher.validate(notifierIDs); err != nil {
		return err
	}

	// API 서버 유효성 검사
	if err := c.API.validate(); err != nil {
		return err
	}

	return nil
}

// VerifyRecommendations 서비스 운영의 안정성과 보안을 위해 권장되는 설정 준수 여부를 진단합니다.
// 강제적인 에러를 발생시키지는 않으나, 잠재적 위험 요소(예: Well-known Port 사용)에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	return c.API.VerifyRecommendations()
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	err := k.Load(confmap.Provider(map[string]interface{}{
		"http_retry.max_retries":          DefaultMaxRetries,
		"http_retry.retry_delay":          DefaultRetryDelay,
		"http_retry.randomize_user_agent": false,
		"crawler.navigation_timeout": DefaultNavigationTimeout,
		"crawler.filter_wait":        DefaultFilterWait,
		"crawler.settle_delay":       DefaultSettleDelay,
		"crawler.scrape_limit":       DefaultScrapeLimit,
		"crawler.headless":           true,
		"naver.page_size":            DefaultSearchPageSize,
		"database.host":              "127.0.0.1",
		"database.port":              5432,
		"database.ssl_mode":          "disable",
		"database.max_open_conns":    10,
		"database.max_idle_conns":    5,
		"watcher.snapshot_dir":       "./watch-snapshots",
	}, "."), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: GIFT_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: GIFT_NAVER__CLIENT_SECRET -> naver.client_secret
	if err := k.Load(env.Provider("GIFT_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "GIFT_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
