package crawler

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/giftdeum/gift-server/internal/config"
	applog "github.com/giftdeum/gift-server/pkg/log"
)

// component 크롤러 로깅용 컴포넌트 이름
const component = "crawler"

// 뷰포트 크기는 데스크톱 해상도로 고정합니다.
// 대상 페이지는 반응형 레이아웃이므로, 뷰포트가 달라지면 결과 목록의 마크업과
// 셀렉터 구조가 달라질 수 있습니다.
const (
	viewportWidth  = 1920
	viewportHeight = 1080
)

// viewportOverride 고정 뷰포트에 해당하는 디바이스 메트릭 설정을 반환합니다.
func viewportOverride() *proto.EmulationSetDeviceMetricsOverride {
	return &proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}
}

// State 브라우저 세션의 상태입니다.
//
// 정상 흐름은 Created → Navigating → Ready → Extracting → Closing → Closed이며,
// Navigating과 Extracting에서의 실패는 Error를 거치더라도 반드시 Closing을
// 통과합니다. 브라우저 프로세스는 어떤 종료 경로에서도 정리됩니다.
type State int

const (
	// StateCreated 브라우저가 기동되고 페이지가 준비된 상태입니다.
	StateCreated State = iota
	// StateNavigating 검색 결과 페이지로 이동 중인 상태입니다.
	StateNavigating
	// StateReady 페이지 로드가 완료되어 조작이 가능한 상태입니다.
	StateReady
	// StateExtracting 렌더링된 DOM에서 상품을 추출 중인 상태입니다.
	StateExtracting
	// StateClosing 브라우저 프로세스를 종료 중인 상태입니다.
	StateClosing
	// StateClosed 브라우저 프로세스가 종료된 상태입니다.
	StateClosed
	// StateError 세션 내부에서 실패가 발생한 상태입니다.
	StateError
)

// String 상태의 문자열 표현을 반환합니다.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateNavigating:
		return "Navigating"
	case StateReady:
		return "Ready"
	case StateExtracting:
		return "Extracting"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	case StateError:
		return "Error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session 단일 스크래핑 작업에 바인딩된 브라우저 세션입니다.
// 세션은 WithSession 콜백의 수명 동안에만 유효합니다.
type Session struct {
	page  *rod.Page
	state State
}

// transition 세션 상태를 전이시킵니다.
func (s *Session) transition(next State) {
	applog.WithComponent(component).
		WithField("from", s.state.String()).
		WithField("to", next.String()).
		Debug("브라우저 세션의 상태가 전이되었습니다.")

	s.state = next
}

// Manager 브라우저 프로세스의 생명주기를 관리합니다.
type Manager struct {
	cfg *config.CrawlerConfig
}

// NewManager 새로운 세션 관리자를 생성합니다.
func NewManager(cfg *config.CrawlerConfig) *Manager {
	return &Manager{cfg: cfg}
}

// WithSession 브라우저 세션을 획득하여 fn을 실행합니다.
//
// 브라우저 프로세스는 fn의 종료 경로(정상 반환, 에러, 패닉)와 무관하게 반드시
// 종료됩니다. fn 내부의 패닉은 ExecutionFailed 에러로 변환되어 반환됩니다.
func WithSession[T any](ctx context.Context, m *Manager, fn func(*Session) (T, error)) (T, error) {
	var zero T

	l := newLauncher(m.cfg)

	controlURL, err := l.Launch()
	if err != nil {
		return zero, newErrScrapeFailed(err, "브라우저의 기동이 실패하였습니다.")
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return zero, newErrScrapeFailed(err, "브라우저와의 연결이 실패하였습니다.")
	}

	session := &Session{state: StateCreated}

	release := func() {
		if closeErr := browser.Close(); closeErr != nil {
			applog.WithComponent(component).
				WithError(closeErr).
				Warn("브라우저의 종료가 실패하였습니다.")
		}
		l.Cleanup()
	}

	return runSession(session, release, func(s *Session) (T, error) {
		// 자동화 탐지를 회피하기 위해 스텔스 패치가 적용된 페이지를 사용한다.
		page, err := stealth.Page(browser)
		if err != nil {
			return zero, newErrScrapeFailed(err, "브라우저 페이지의 생성이 실패하였습니다.")
		}
		if err := page.SetViewport(viewportOverride()); err != nil {
			return zero, newErrScrapeFailed(err, "브라우저 뷰포트의 설정이 실패하였습니다.")
		}
		s.page = page

		return fn(s)
	})
}

// newLauncher 설정에 따라 브라우저 런처를 구성합니다.
func newLauncher(cfg *config.CrawlerConfig) *launcher.Launcher {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled").
		Set("window-size", fmt.Sprintf("%d,%d", viewportWidth, viewportHeight))
	if cfg.BrowserPath != "" {
		l = l.Bin(cfg.BrowserPath)
	}

	return l
}

// runSession fn을 실행하고 그 종료 경로(정상 반환, 에러, 패닉)와 무관하게 release를
// 정확히 한 번 호출합니다. fn 내부의 패닉은 ExecutionFailed 에러로 변환되어 반환됩니다.
func runSession[T any](session *Session, release func(), fn func(*Session) (T, error)) (result T, err error) {
	var zero T

	defer func() {
		session.transition(StateClosing)
		release()
		session.transition(StateClosed)

		if r := recover(); r != nil {
			session.state = StateError
			result = zero
			err = newErrScrapeFailed(fmt.Errorf("%v", r), "스크래핑 중 복구되지 않은 실패가 발생하였습니다.")
		}
	}()

	result, err = fn(session)
	if err != nil {
		session.state = StateError
		return zero, err
	}

	return result, nil
}
