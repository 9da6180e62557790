package notification

import (
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
)

var (
	// ErrServiceStopped 알림 서비스가 실행 중이 아닐 때 반환되는 에러입니다.
	ErrServiceStopped = apperrors.New(apperrors.Unavailable, "알림 서비스가 실행 중이 아닙니다")

	// ErrNotifierNotFound 지정된 ID의 Notifier가 존재하지 않을 때 반환되는 에러입니다.
	ErrNotifierNotFound = apperrors.New(apperrors.NotFound, "지정된 Notifier를 찾을 수 없습니다")

	// ErrQueueFull 발송 요청 큐가 가득 찼을 때 반환되는 에러입니다.
	ErrQueueFull = apperrors.New(apperrors.Unavailable, "알림 발송 요청 큐가 가득 찼습니다")
)
