package maputil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type retryPolicy struct {
	MaxRetries int    `json:"max_retries"`
	RetryDelay string `json:"retry_delay"`
}

type watchOptions struct {
	retryPolicy `json:",squash"`

	Sort            string        `json:"sort"`
	PageLimit       int           `json:"page_limit"`
	Interval        time.Duration `json:"interval"`
	IncludeKeywords []string      `json:"include_keywords"`
	Enabled         bool          `json:"enabled"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("json_태그를_기준으로_필드를_매핑한다", func(t *testing.T) {
		t.Parallel()

		decoded, err := Decode[watchOptions](map[string]any{
			"sort":       "date",
			"page_limit": 3,
		})
		require.NoError(t, err)

		assert.Equal(t, "date", decoded.Sort)
		assert.Equal(t, 3, decoded.PageLimit)
	})

	t.Run("문자열로_지정된_숫자와_불리언을_보정한다", func(t *testing.T) {
		t.Parallel()

		decoded, err := Decode[watchOptions](map[string]any{
			"page_limit": "5",
			"enabled":    "true",
		})
		require.NoError(t, err)

		assert.Equal(t, 5, decoded.PageLimit)
		assert.True(t, decoded.Enabled)
	})

	t.Run("기간_문자열을_Duration으로_변환한다", func(t *testing.T) {
		t.Parallel()

		decoded, err := Decode[watchOptions](map[string]any{"interval": "90s"})
		require.NoError(t, err)

		assert.Equal(t, 90*time.Second, decoded.Interval)
	})

	t.Run("쉼표로_구분된_문자열을_슬라이스로_변환한다", func(t *testing.T) {
		t.Parallel()

		decoded, err := Decode[watchOptions](map[string]any{"include_keywords": "레고, 정품 ,신형"})
		require.NoError(t, err)

		assert.Equal(t, []string{"레고", "정품", "신형"}, decoded.IncludeKeywords)
	})

	t.Run("임베디드_구조체의_필드를_평탄화하여_매핑한다", func(t *testing.T) {
		t.Parallel()

		decoded, err := Decode[watchOptions](map[string]any{
			"max_retries": 2,
			"retry_delay": "1s",
			"sort":        "asc",
		})
		require.NoError(t, err)

		assert.Equal(t, 2, decoded.MaxRetries)
		assert.Equal(t, "1s", decoded.RetryDelay)
		assert.Equal(t, "asc", decoded.Sort)
	})

	t.Run("정의되지_않은_필드는_기본적으로_무시한다", func(t *testing.T) {
		t.Parallel()

		decoded, err := Decode[watchOptions](map[string]any{
			"sort":    "date",
			"unknown": "value",
		})
		require.NoError(t, err)

		assert.Equal(t, "date", decoded.Sort)
	})

	t.Run("WithErrorUnused_옵션은_정의되지_않은_필드를_에러로_처리한다", func(t *testing.T) {
		t.Parallel()

		_, err := Decode[watchOptions](map[string]any{"unknown": "value"}, WithErrorUnused())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown")
	})

	t.Run("변환할_수_없는_필드_타입은_에러를_반환한다", func(t *testing.T) {
		t.Parallel()

		_, err := Decode[watchOptions](map[string]any{
			"page_limit": []string{"1", "2"},
		})
		assert.Error(t, err)
	})
}
