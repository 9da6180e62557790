package crawler

import (
	"context"
	"errors"

	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
)

var (
	// ErrNavigationTimeout 검색 결과 페이지로의 이동이 설정된 시간 내에 완료되지 않았을 때 반환하는 에러입니다.
	ErrNavigationTimeout = apperrors.New(apperrors.Timeout, "검색 결과 페이지로의 이동이 제한 시간을 초과하였습니다.")

	// ErrNoResultsAvailable 검색어에 해당하는 결과가 대상 사이트에 존재하지 않을 때 반환하는 에러입니다.
	// 가격 필터 컨트롤은 검색 결과가 있을 때에만 렌더링되므로, 컨트롤의 부재를 결과 없음으로 해석합니다.
	// 파이프라인 실패가 아니라 복구 가능한 빈 결과 상황입니다.
	ErrNoResultsAvailable = apperrors.New(apperrors.NotFound, "검색 결과가 존재하지 않습니다.")
)

// newErrScrapeFailed 스크래핑 과정의 분류되지 않은 실패를 원인과 함께 감쌉니다.
func newErrScrapeFailed(cause error, format string, args ...any) error {
	return apperrors.Wrapf(cause, apperrors.ExecutionFailed, format, args...)
}

// navigationError 페이지 이동 단계의 실패를 분류합니다.
// 제한 시간 초과는 ErrNavigationTimeout으로 해석하고, 그 외는 원인을 감싸서 반환합니다.
func navigationError(cause error, format string, args ...any) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return ErrNavigationTimeout
	}
	return newErrScrapeFailed(cause, format, args...)
}
