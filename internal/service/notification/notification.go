// Package notification 텔레그램을 통한 알림 발송 서비스를 제공합니다.
//
// 발송 요청은 내부 큐에 등록된 후 별도의 고루틴에서 순차적으로 처리되므로,
// 호출 측은 실제 전송 완료를 기다리지 않습니다.
package notification

// component 알림 서비스 로깅용 컴포넌트 이름
const component = "notification"

// Sender 알림 발송 기능을 제공하는 인터페이스입니다.
// 외부 컴포넌트(API, 감시 작업 등)는 이 인터페이스를 통해 알림 서비스를 사용합니다.
type Sender interface {
	// NotifyWithTitle 지정된 Notifier를 통해 제목이 포함된 알림 메시지를 발송합니다.
	// notifierID가 비어있으면 기본 Notifier를 사용합니다.
	// errorOccurred가 true이면 오류 상황으로 처리되어 시각적 강조가 적용됩니다.
	//
	// 발송 요청이 정상적으로 큐에 등록되면 nil을 반환하며, 실제 전송 결과와는
	// 무관합니다. 서비스가 중지되었거나 Notifier를 찾을 수 없으면 에러를 반환합니다.
	NotifyWithTitle(notifierID string, title string, message string, errorOccurred bool) error

	// NotifyDefault 기본 알림 채널로 일반 메시지를 발송합니다.
	NotifyDefault(message string) error

	// NotifyDefaultWithError 기본 알림 채널로 오류 성격의 알림 메시지를 발송합니다.
	// 시스템 내부 에러, 작업 실패 등 관리자의 주의가 필요한 상황에 사용합니다.
	NotifyDefaultWithError(message string) error
}
