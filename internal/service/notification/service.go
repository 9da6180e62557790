package notification

import (
	"context"
	"sync"

	"github.com/giftdeum/gift-server/internal/config"
	applog "github.com/giftdeum/gift-server/pkg/log"
)

// requestQueueSize 발송 요청 큐의 버퍼 크기입니다.
const requestQueueSize = 100

// Notifier 개별 알림 채널 구현을 위한 인터페이스입니다.
type Notifier interface {
	ID() string

	// Notify 알림 메시지를 실제 채널로 발송합니다.
	Notify(ctx context.Context, title string, message string, errorOccurred bool)
}

// notifyRequest 큐에 등록되는 발송 요청입니다.
type notifyRequest struct {
	notifierID    string
	title         string
	message       string
	errorOccurred bool
}

// Service 알림 발송 요청을 큐로 받아 순차적으로 처리하는 서비스입니다.
//
// 서비스는 고루틴으로 실행되며, context를 통해 종료 신호를 받습니다.
// 종료 시 큐에 남아있는 요청은 처리되지 않고 폐기됩니다.
type Service struct {
	defaultNotifierID string
	notifiers         map[string]Notifier

	requestC chan notifyRequest

	running   bool
	runningMu sync.Mutex
}

var _ Sender = (*Service)(nil)

// NewService 설정된 알림 채널들로 Service 인스턴스를 생성합니다.
func NewService(cfg *config.NotifierConfig) (*Service, error) {
	notifiers := make(map[string]Notifier, len(cfg.Telegrams))

	for i := range cfg.Telegrams {
		n, err := NewTelegramNotifier(&cfg.Telegrams[i])
		if err != nil {
			return nil, err
		}
		notifiers[n.ID()] = n
	}

	return newService(cfg.DefaultNotifierID, notifiers), nil
}

func newService(defaultNotifierID string, notifiers map[string]Notifier) *Service {
	return &Service{
		defaultNotifierID: defaultNotifierID,
		notifiers:         notifiers,

		requestC: make(chan notifyRequest, requestQueueSize),

		running:   false,
		runningMu: sync.Mutex{},
	}
}

// Start 알림 서비스를 시작합니다.
// 이 함수는 즉시 반환되며, 발송 요청의 처리는 고루틴에서 수행됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("알림 서비스를 시작합니다.")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("알림 서비스가 이미 시작되었습니다.")
		return nil
	}

	s.running = true

	go s.runDispatchLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(component).Info("알림 서비스가 시작되었습니다.")

	return nil
}

// runDispatchLoop 발송 요청 큐를 소비하여 각 Notifier로 전달하는 메인 루프입니다.
func (s *Service) runDispatchLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	for {
		select {
		case <-serviceStopCtx.Done():
			applog.WithComponent(component).Info("알림 서비스를 중지합니다.")

			s.runningMu.Lock()
			s.running = false
			s.runningMu.Unlock()

			applog.WithComponent(component).Info("알림 서비스가 중지되었습니다.")

			return

		case req := <-s.requestC:
			notifier, exists := s.notifiers[req.notifierID]
			if !exists {
				// 큐 등록 시점에 검증하므로 정상 동작에서는 도달하지 않는다.
				applog.WithComponentAndFields(component, applog.Fields{
					"notifier_id": req.notifierID,
				}).Error("지정된 Notifier를 찾을 수 없습니다.")

				continue
			}

			notifier.Notify(serviceStopCtx, req.title, req.message, req.errorOccurred)
		}
	}
}

// NotifyWithTitle 지정된 Notifier를 통해 제목이 포함된 알림 메시지를 발송합니다.
// notifierID가 비어있으면 기본 Notifier를 사용합니다.
func (s *Service) NotifyWithTitle(notifierID string, title string, message string, errorOccurred bool) error {
	s.runningMu.Lock()
	running := s.running
	s.runningMu.Unlock()

	if !running {
		return ErrServiceStopped
	}

	if notifierID == "" {
		notifierID = s.defaultNotifierID
	}

	if _, exists := s.notifiers[notifierID]; !exists {
		return ErrNotifierNotFound
	}

	select {
	case s.requestC <- notifyRequest{
		notifierID:    notifierID,
		title:         title,
		message:       message,
		errorOccurred: errorOccurred,
	}:
		return nil
	default:
		applog.WithComponentAndFields(component, applog.Fields{
			"notifier_id": notifierID,
			"queue_size":  requestQueueSize,
		}).Error("발송 요청 큐가 가득 차 알림이 유실되었습니다.")

		return ErrQueueFull
	}
}

// NotifyDefault 기본 알림 채널로 일반 메시지를 발송합니다.
func (s *Service) NotifyDefault(message string) error {
	return s.NotifyWithTitle(s.defaultNotifierID, "", message, false)
}

// NotifyDefaultWithError 기본 알림 채널로 오류 성격의 알림 메시지를 발송합니다.
func (s *Service) NotifyDefaultWithError(message string) error {
	return s.NotifyWithTitle(s.defaultNotifierID, "", message, true)
}
