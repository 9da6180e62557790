package watcher

import (
	"testing"

	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWatchSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		data          map[string]any
		wantSort      string
		wantPageLimit int
		wantErrType   apperrors.ErrorType
	}{
		{
			name:          "데이터가_없으면_기본값이_적용된다",
			data:          nil,
			wantSort:      "sim",
			wantPageLimit: defaultPageLimit,
		},
		{
			name: "정렬_방식과_페이지_수를_지정할_수_있다",
			data: map[string]any{
				"sort":       "date",
				"page_limit": 3,
			},
			wantSort:      "date",
			wantPageLimit: 3,
		},
		{
			name: "문자열로_지정된_페이지_수도_해석된다",
			data: map[string]any{
				"page_limit": "2",
			},
			wantSort:      "sim",
			wantPageLimit: 2,
		},
		{
			name: "최대_페이지_수를_초과하면_최대값으로_보정된다",
			data: map[string]any{
				"page_limit": 100,
			},
			wantSort:      "sim",
			wantPageLimit: maxPageLimit,
		},
		{
			name: "페이지_수가_0이하이면_기본값이_적용된다",
			data: map[string]any{
				"page_limit": -1,
			},
			wantSort:      "sim",
			wantPageLimit: defaultPageLimit,
		},
		{
			name: "지원하지_않는_정렬_방식은_오류를_반환한다",
			data: map[string]any{
				"sort": "popularity",
			},
			wantErrType: apperrors.InvalidInput,
		},
		{
			name: "해석할_수_없는_필드_타입은_오류를_반환한다",
			data: map[string]any{
				"page_limit": []string{"1", "2"},
			},
			wantErrType: apperrors.InvalidInput,
		},
		{
			name: "정의되지_않은_설정_키는_오류를_반환한다",
			data: map[string]any{
				"sorts": "date",
			},
			wantErrType: apperrors.InvalidInput,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			settings, err := decodeWatchSettings(tt.data)

			if tt.wantErrType != apperrors.Unknown {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, tt.wantErrType))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSort, settings.Sort)
			assert.Equal(t, tt.wantPageLimit, settings.PageLimit)
		})
	}
}
