package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/giftdeum/gift-server/internal/config"
	"github.com/giftdeum/gift-server/internal/pkg/version"
	"github.com/giftdeum/gift-server/internal/service/api/handler/system"
	v1 "github.com/giftdeum/gift-server/internal/service/api/v1"
	v1handler "github.com/giftdeum/gift-server/internal/service/api/v1/handler"
	applog "github.com/giftdeum/gift-server/pkg/log"
	"github.com/labstack/echo/v4"
)

const (
	component = "api.service"

	// shutdownTimeout Graceful Shutdown 시 최대 대기 시간
	shutdownTimeout = 5 * time.Second
)

// ErrorNotifier 서버에서 발생한 치명적인 에러를 외부 채널로 전파합니다.
type ErrorNotifier interface {
	NotifyDefaultWithError(message string) error
}

// Service 상품 조회 API 서버의 생명주기를 관리하는 서비스입니다.
//
// Echo 기반 HTTP/HTTPS 서버의 시작과 종료, 미들웨어 체인 설정,
// 라우트 등록, Graceful Shutdown(5초 타임아웃)을 담당합니다.
//
// 서비스는 고루틴으로 실행되며, context를 통해 종료 신호를 받습니다.
type Service struct {
	appConfig *config.AppConfig

	products v1handler.ProductProvider
	db       system.Pinger

	errorNotifier ErrorNotifier

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
//
// errorNotifier는 nil일 수 있으며, nil인 경우 서버 에러 발생 시 알림 전송을 생략합니다.
func NewService(appConfig *config.AppConfig, products v1handler.ProductProvider, db system.Pinger, errorNotifier ErrorNotifier, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic("appConfig은 nil일 수 없습니다")
	}
	if products == nil {
		panic("products는 nil일 수 없습니다")
	}

	return &Service{
		appConfig: appConfig,

		products: products,
		db:       db,

		errorNotifier: errorNotifier,

		buildInfo: buildInfo,

		running:   false,
		runningMu: sync.Mutex{},
	}
}

// Start API 서비스를 시작합니다.
//
// 서비스는 별도의 고루틴에서 실행되며, Echo 서버 설정, HTTP/HTTPS 서버 시작,
// Shutdown 신호 대기, Graceful Shutdown 처리를 수행합니다.
// 이 함수는 즉시 반환되며, 실제 서버는 고루틴에서 실행됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("API 서비스를 시작합니다.")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("API 서비스가 이미 시작되었습니다.")
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(component).Info("API 서비스가 시작되었습니다.")

	return nil
}

// runServiceLoop 서비스의 메인 실행 루프입니다.
// 서버 설정, HTTP 서버 시작, Shutdown 대기를 순차적으로 수행합니다.
func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer Echo 서버 인스턴스를 생성하고 모든 설정을 완료합니다.
func (s *Service) setupServer() *echo.Echo {
	systemHandler := system.NewHandler(s.buildInfo, s.db)
	v1Handler := v1handler.NewHandler(s.products)

	e := NewHTTPServer(HTTPServerConfig{
		Debug:              s.appConfig.Debug,
		AllowOrigins:       s.appConfig.API.CORS.AllowOrigins,
		RateLimitPerSecond: s.appConfig.API.RateLimit.RequestsPerSecond,
		RateLimitBurst:     s.appConfig.API.RateLimit.Burst,
	})

	RegisterRoutes(e, systemHandler)
	v1.RegisterRoutes(e, v1Handler)

	return e
}

// startHTTPServer HTTP/HTTPS 서버를 시작합니다.
//
// 설정에 따라 TLS 활성화 여부를 결정하며, 서버가 종료되면 done 채널을 닫아
// 대기 중인 고루틴에 신호를 보냅니다.
// 이 함수는 블로킹되며, 서버가 종료될 때까지 반환되지 않습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.API.WS.ListenPort
	applog.WithComponentAndFields(component, applog.Fields{
		"port": port,
	}).Debug("HTTP 서버를 시작합니다.")

	var err error
	if s.appConfig.API.WS.TLSServer {
		err = e.StartTLS(
			fmt.Sprintf(":%d", port),
			s.appConfig.API.WS.TLSCertFile,
			s.appConfig.API.WS.TLSKeyFile,
		)
	} else {
		err = e.Start(fmt.Sprintf(":%d", port))
	}

	s.handleServerError(err)
}

// handleServerError HTTP 서버 실행 중 발생한 에러를 처리합니다.
//
//   - nil: 처리하지 않음 (정상 종료)
//   - http.ErrServerClosed: Info 레벨 로깅 (Graceful Shutdown)
//   - 그 외: Error 레벨 로깅 + 알림 전송 (예상치 못한 에러)
func (s *Service) handleServerError(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(component).Info("HTTP 서버가 중지되었습니다.")
		return
	}

	message := "HTTP 서버 실행 중 치명적인 에러가 발생하였습니다."
	applog.WithComponentAndFields(component, applog.Fields{
		"port":  s.appConfig.API.WS.ListenPort,
		"error": err,
	}).Error(message)

	if s.errorNotifier != nil {
		_ = s.errorNotifier.NotifyDefaultWithError(fmt.Sprintf("%s\r\n\r\n%s", message, err))
	}
}

// waitForShutdown 종료 신호를 대기하고 Graceful Shutdown을 수행합니다.
//
// 이 함수는 서비스가 완전히 종료될 때까지 블로킹됩니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(component).Info("API 서비스를 중지합니다.")
	case <-httpServerDone:
		// HTTP 서버가 예기치 않게 종료됨 (포트 바인딩 실패, 패닉 등)
		// 이미 종료되었으므로 Shutdown 호출 없이 상태만 정리
		applog.WithComponent(component).Error("HTTP 서버가 예기치 않게 종료되었습니다.")

		s.cleanup()

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Error("HTTP 서버 종료 중 에러가 발생하였습니다.")
	}

	<-httpServerDone

	s.cleanup()
}

// cleanup 서비스 종료 후 상태를 정리합니다.
func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(component).Info("API 서비스가 중지되었습니다.")
}
