package crawler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
)

func TestNewErrScrapeFailed(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := newErrScrapeFailed(cause, "검색 결과 페이지의 로드가 실패하였습니다.(URL:%s)", "https://search.example/all?query=lego")

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ExecutionFailed))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "URL:https://search.example/all?query=lego")
}

func TestNavigationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cause       error
		wantErr     error
		wantErrType apperrors.ErrorType
	}{
		{
			name:        "제한_시간_초과는_이동_타임아웃으로_분류된다",
			cause:       context.DeadlineExceeded,
			wantErr:     ErrNavigationTimeout,
			wantErrType: apperrors.Timeout,
		},
		{
			name:        "감싸진_제한_시간_초과도_이동_타임아웃으로_분류된다",
			cause:       fmt.Errorf("navigate: %w", context.DeadlineExceeded),
			wantErr:     ErrNavigationTimeout,
			wantErrType: apperrors.Timeout,
		},
		{
			name:        "그_외의_실패는_원인을_감싼_실행_실패로_분류된다",
			cause:       errors.New("net::ERR_NAME_NOT_RESOLVED"),
			wantErrType: apperrors.ExecutionFailed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := navigationError(tt.cause, "검색 결과 페이지로의 이동이 실패하였습니다.(URL:%s)", "https://search.example")

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.wantErrType))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestErrNoResultsAvailable(t *testing.T) {
	t.Parallel()

	assert.True(t, apperrors.Is(ErrNoResultsAvailable, apperrors.NotFound))
}
