// Package watcher 설정된 검색어로 상품을 주기적으로 검색하여 신규 상품과
// 가격 인하를 감지하고 알림을 발송하는 서비스를 제공합니다.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/giftdeum/gift-server/internal/config"
	"github.com/giftdeum/gift-server/internal/model"
	"github.com/giftdeum/gift-server/internal/service/notification"
	"github.com/giftdeum/gift-server/internal/service/product"
	"github.com/giftdeum/gift-server/internal/service/watcher/storage"
	"github.com/giftdeum/gift-server/pkg/cronx"
	applog "github.com/giftdeum/gift-server/pkg/log"
	"github.com/giftdeum/gift-server/pkg/strutil"
	"github.com/robfig/cron/v3"
)

// component Watcher 서비스의 로깅용 컴포넌트 이름
const component = "watcher.service"

// watchRunTimeout 한 번의 감시 실행에 허용되는 최대 시간입니다.
const watchRunTimeout = 5 * time.Minute

// ProductFinder 감시 작업이 사용하는 상품 검색 경계입니다.
type ProductFinder interface {
	FindMany(ctx context.Context, query string, page int, sort model.Sort) (*product.ProductPage, error)
}

// Service 설정된 감시 작업들을 Cron 스케줄에 맞춰 실행하는 서비스입니다.
type Service struct {
	cfg *config.WatcherConfig

	finder    ProductFinder
	snapshots storage.SnapshotStore

	notificationSender notification.Sender

	cron *cron.Cron

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Watcher 서비스 인스턴스를 생성합니다.
func NewService(cfg *config.WatcherConfig, finder ProductFinder, snapshots storage.SnapshotStore, notificationSender notification.Sender) *Service {
	if cfg == nil {
		panic("WatcherConfig는 필수입니다")
	}
	if finder == nil {
		panic("ProductFinder는 필수입니다")
	}
	if snapshots == nil {
		panic("SnapshotStore는 필수입니다")
	}
	if notificationSender == nil {
		panic("NotificationSender는 필수입니다")
	}

	return &Service{
		cfg: cfg,

		finder:    finder,
		snapshots: snapshots,

		notificationSender: notificationSender,
	}
}

// Start 감시 서비스를 시작하고 설정된 감시 작업들을 Cron 엔진에 등록합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("감시 서비스를 시작합니다.")

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("감시 서비스가 이미 시작되었습니다.")
		return nil
	}

	// Recover: 감시 작업의 panic이 다른 작업에 영향을 주지 않도록 복구
	// SkipIfStillRunning: 이전 실행이 끝나지 않았으면 다음 실행을 건너뜀
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	s.registerWatches()

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"registered_watches": len(s.cron.Entries()),
		"defined_watches":    len(s.cfg.Watches),
	}).Info("감시 서비스가 시작되었습니다.")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 감시 서비스를 안전하게 중지합니다.
// 실행 중인 감시 작업이 완료될 때까지 대기합니다.
func (s *Service) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("감시 서비스를 중지합니다.")

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("감시 서비스가 중지되었습니다.")
}

// registerWatches 설정된 감시 작업들을 Cron 엔진에 등록합니다.
// 설정이 유효하지 않은 작업은 건너뛰고 나머지 작업의 등록을 계속합니다.
func (s *Service) registerWatches() {
	for _, w := range s.cfg.Watches {
		watch := w

		settings, err := decodeWatchSettings(watch.Data)
		if err != nil {
			s.logAndNotifyError(&watch, "감시 작업 설정이 유효하지 않아 등록을 건너뜁니다", err)
			continue
		}

		_, err = s.cron.AddFunc(watch.TimeSpec, func() {
			// 감시 실행의 생명주기는 서비스 종료 신호와 분리한다.
			// 종료 시 cron.Stop()이 실행 중인 작업의 완료를 대기한다.
			ctx, cancel := context.WithTimeout(context.Background(), watchRunTimeout)
			defer cancel()

			if err := s.runWatch(ctx, &watch, settings); err != nil {
				s.logAndNotifyError(&watch, "감시 작업 실행 중 오류가 발생하였습니다", err)
			}
		})
		if err != nil {
			s.logAndNotifyError(&watch, fmt.Sprintf("스케줄 등록에 실패하였습니다(time_spec: %s)", watch.TimeSpec), err)
			continue
		}
	}
}

// runWatch 하나의 감시 작업을 실행합니다.
//
// 검색 결과를 가격 범위와 키워드 조건으로 필터링한 후 직전 스냅샷과 비교하여
// 신규 상품과 가격 인하를 감지합니다. 첫 실행에서는 비교 기준이 없으므로
// 스냅샷만 저장하고 알림은 발송하지 않습니다.
func (s *Service) runWatch(ctx context.Context, w *config.WatchConfig, settings *watchSettings) error {
	applog.WithComponentAndFields(component, applog.Fields{
		"watch_id": w.ID,
		"query":    w.Query,
	}).Debug("감시 작업을 실행합니다.")

	current, err := s.collectItems(ctx, w, settings)
	if err != nil {
		return err
	}

	var old Snapshot
	firstRun := false
	if err := s.snapshots.Load(w.ID, &old); err != nil {
		if !errors.Is(err, storage.ErrSnapshotNotFound) {
			return err
		}
		firstRun = true
	}

	changes := diffSnapshots(&old, current)

	if err := s.snapshots.Save(w.ID, Snapshot{
		Query:     w.Query,
		Items:     current,
		UpdatedAt: time.Now(),
	}); err != nil {
		return err
	}

	if firstRun {
		applog.WithComponentAndFields(component, applog.Fields{
			"watch_id": w.ID,
			"items":    len(current),
		}).Info("감시 작업의 첫 스냅샷을 저장하였습니다.")

		return nil
	}

	if changes.Empty() {
		applog.WithComponentAndFields(component, applog.Fields{
			"watch_id": w.ID,
			"items":    len(current),
		}).Debug("감지된 변동이 없습니다.")

		return nil
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"watch_id":    w.ID,
		"new_items":   len(changes.NewItems),
		"price_drops": len(changes.PriceDrops),
	}).Info("상품 변동이 감지되었습니다.")

	if err := s.notificationSender.NotifyWithTitle(w.NotifierID, watchTitle(w), buildChangeMessage(changes), false); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"watch_id":    w.ID,
			"notifier_id": w.NotifierID,
			"error":       err,
		}).Error("변동 알림 발송에 실패하였습니다.")
	}

	return nil
}

// collectItems 검색 결과를 수집하고 감시 조건으로 필터링하여 스냅샷 항목으로 변환합니다.
func (s *Service) collectItems(ctx context.Context, w *config.WatchConfig, settings *watchSettings) ([]SnapshotItem, error) {
	matcher := strutil.NewKeywordMatcher(w.IncludeKeywords, w.ExcludeKeywords)

	var items []SnapshotItem
	for page := 1; page <= settings.PageLimit; page++ {
		result, err := s.finder.FindMany(ctx, w.Query, page, model.Sort(settings.Sort))
		if err != nil {
			return nil, err
		}

		for _, p := range result.Products {
			if !s.matchWatch(w, matcher, p) {
				continue
			}

			items = append(items, SnapshotItem{
				Key:   snapshotKey(p),
				Title: p.Title,
				Price: p.Price,
				Link:  p.Link,
			})
		}

		if page >= result.TotalPages {
			break
		}
	}

	return items, nil
}

// matchWatch 상품이 감시 작업의 가격 범위와 키워드 조건을 만족하는지 검사합니다.
func (s *Service) matchWatch(w *config.WatchConfig, matcher *strutil.KeywordMatcher, p *model.Product) bool {
	if w.MinPrice > 0 && p.Price < int64(w.MinPrice) {
		return false
	}
	if w.MaxPrice > 0 && p.Price > int64(w.MaxPrice) {
		return false
	}
	return matcher.Match(p.Title)
}

// watchTitle 알림 제목으로 사용할 감시 작업의 이름을 반환합니다.
func watchTitle(w *config.WatchConfig) string {
	if w.Title != "" {
		return w.Title
	}
	return fmt.Sprintf("상품 감시: %s", w.Query)
}

// buildChangeMessage 감지된 변동 내역을 알림 메시지로 변환합니다.
func buildChangeMessage(changes *Changes) string {
	var sb strings.Builder

	if len(changes.NewItems) > 0 {
		fmt.Fprintf(&sb, "🆕 신규 상품 %d건\n", len(changes.NewItems))
		for _, item := range changes.NewItems {
			fmt.Fprintf(&sb, "- %s (%s원)\n%s\n", item.Title, strutil.FormatCommas(item.Price), item.Link)
		}
	}

	if len(changes.PriceDrops) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "💸 가격 인하 %d건\n", len(changes.PriceDrops))
		for _, drop := range changes.PriceDrops {
			fmt.Fprintf(&sb, "- %s (%s원 → %s원)\n%s\n",
				drop.Item.Title,
				strutil.FormatCommas(drop.OldPrice),
				strutil.FormatCommas(drop.Item.Price),
				drop.Item.Link)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// logAndNotifyError 감시 작업 실행 중 발생한 오류를 로깅하고 관리자에게 알림을 전송합니다.
func (s *Service) logAndNotifyError(w *config.WatchConfig, message string, err error) {
	applog.WithComponentAndFields(component, applog.Fields{
		"watch_id":    w.ID,
		"notifier_id": w.NotifierID,
		"error":       err,
	}).Error(message)

	if notifyErr := s.notificationSender.NotifyWithTitle(w.NotifierID, watchTitle(w), fmt.Sprintf("%s: %v", message, err), true); notifyErr != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"watch_id": w.ID,
			"error":    notifyErr,
		}).Error("오류 알림 발송에 실패하였습니다.")
	}
}
