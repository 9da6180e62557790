package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/giftdeum/gift-server/internal/config"
	"github.com/giftdeum/gift-server/internal/fetcher"
	"github.com/giftdeum/gift-server/internal/pkg/version"
	"github.com/giftdeum/gift-server/internal/scraper"
	"github.com/giftdeum/gift-server/internal/service"
	"github.com/giftdeum/gift-server/internal/service/api"
	"github.com/giftdeum/gift-server/internal/service/crawler"
	"github.com/giftdeum/gift-server/internal/service/notification"
	"github.com/giftdeum/gift-server/internal/service/product"
	"github.com/giftdeum/gift-server/internal/service/product/naver"
	"github.com/giftdeum/gift-server/internal/service/watcher"
	watcherstorage "github.com/giftdeum/gift-server/internal/service/watcher/storage"
	"github.com/giftdeum/gift-server/internal/storage/postgres"
	applog "github.com/giftdeum/gift-server/pkg/log"
	log "github.com/sirupsen/logrus"
)

const (
	banner = `
   ____  _  __  _     ____
  / ___|(_)/ _|| |_  / ___|   ___  _ __ __   __  ___  _ __
 | |  _ | || |_| __| \___ \  / _ \| '__|\ \ / / / _ \| '__|
 | |_| || ||  _| |_   ___) ||  __/| |    \ V / |  __/| |
  \____||_||_|  \__| |____/  \___||_|     \_/   \___||_|
                                                %s
--------------------------------------------------------------------------------
`
)

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	appConfig, err := loadConfig()
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentConfig(config.AppName)
	} else {
		logOpts = applog.NewProductionConfig(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	// 3. 로그 레벨 최종 확정
	applog.SetDebugMode(appConfig.Debug)

	buildInfo := version.Get()

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Printf(banner, buildInfo.Version)

	applog.WithComponentAndFields("main", log.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	// 권장 설정 준수 여부 진단
	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	// 4. 데이터베이스 연결 및 스키마 준비
	startupCtx := context.Background()

	db, err := postgres.Open(startupCtx, &appConfig.Database)
	if err != nil {
		log.Fatalf("데이터베이스 연결에 실패하였습니다: %v", err)
	}
	defer db.Close()

	if err := postgres.Bootstrap(startupCtx, db); err != nil {
		log.Fatalf("데이터베이스 스키마 준비에 실패하였습니다: %v", err)
	}

	store := postgres.NewStore(db)

	// 5. 상품 검색 파이프라인 구성
	httpFetcher := fetcher.NewFromConfig(fetcher.Config{
		MaxRetries:                   appConfig.HTTPRetry.MaxRetries,
		MinRetryDelay:                appConfig.HTTPRetry.RetryDelayValue(),
		EnableUserAgentRandomization: appConfig.HTTPRetry.RandomizeUserAgent,
	})

	httpScraper := scraper.New(httpFetcher)

	naverClient := naver.NewClient(
		httpScraper,
		appConfig.Naver.ClientID,
		appConfig.Naver.ClientSecret,
		appConfig.Naver.PageSize,
	)

	productService := product.NewService(naverClient, crawler.New(&appConfig.Crawler, httpScraper), store.Products)

	// 6. 서비스 생성
	var services []service.Service

	var notificationService *notification.Service
	var errorNotifier api.ErrorNotifier
	var notificationSender notification.Sender

	if appConfig.Notifiers.Enabled() {
		notificationService, err = notification.NewService(&appConfig.Notifiers)
		if err != nil {
			log.Fatalf("알림 서비스 초기화에 실패하였습니다: %v", err)
		}

		services = append(services, notificationService)
		errorNotifier = notificationService
		notificationSender = notificationService
	} else {
		applog.WithComponent("main").Warn("정의된 알림 채널이 없어 알림 발송 기능이 비활성화됩니다.")
	}

	if len(appConfig.Watcher.Watches) > 0 {
		if notificationSender == nil {
			log.Fatal("상품 감시 작업은 알림 채널이 정의된 경우에만 사용할 수 있습니다")
		}

		snapshots, err := watcherstorage.NewFileSnapshotStore(appConfig.Watcher.SnapshotDir)
		if err != nil {
			log.Fatalf("감시 스냅샷 저장소 초기화에 실패하였습니다: %v", err)
		}

		services = append(services, watcher.NewService(&appConfig.Watcher, productService, snapshots, notificationSender))
	}

	services = append(services, api.NewService(appConfig, productService, db, errorNotifier, buildInfo))

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	// 7. 서비스 시작
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()

			log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC // Blocks here until interrupted

	// Handle shutdown
	applog.WithComponent("main").Info("Shutdown signal received")
	cancel()             // Signal cancellation to context.Context
	serviceStopWG.Wait() // Block here until are workers are done
}

// loadConfig 실행 인자로 설정 파일 경로가 주어지면 해당 파일을, 아니면 기본 설정 파일을 로드합니다.
func loadConfig() (*config.AppConfig, error) {
	if len(os.Args) > 1 {
		return config.LoadWithFile(os.Args[1])
	}
	return config.Load()
}
