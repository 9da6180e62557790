package crawler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftdeum/gift-server/internal/config"
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
)

func TestRunSession(t *testing.T) {
	t.Parallel()

	t.Run("정상_반환_시_브라우저가_해제되고_결과가_전달된다", func(t *testing.T) {
		t.Parallel()

		session := &Session{state: StateCreated}
		released := 0

		result, err := runSession(session, func() { released++ }, func(s *Session) (string, error) {
			s.transition(StateReady)
			return "records", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "records", result)
		assert.Equal(t, 1, released, "브라우저는 정확히 한 번 해제되어야 한다")
		assert.Equal(t, StateClosed, session.state)
	})

	t.Run("에러_반환_시에도_브라우저가_해제된다", func(t *testing.T) {
		t.Parallel()

		session := &Session{state: StateCreated}
		released := 0
		cause := errors.New("element not found")

		result, err := runSession(session, func() { released++ }, func(*Session) ([]string, error) {
			return []string{"partial"}, cause
		})

		require.ErrorIs(t, err, cause)
		assert.Nil(t, result, "실패한 세션의 부분 결과는 버려져야 한다")
		assert.Equal(t, 1, released)
	})

	t.Run("패닉_발생_시에도_브라우저가_해제되고_에러로_변환된다", func(t *testing.T) {
		t.Parallel()

		session := &Session{state: StateCreated}
		released := 0

		result, err := runSession(session, func() { released++ }, func(*Session) (int, error) {
			panic("unexpected DOM structure")
		})

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ExecutionFailed))
		assert.Contains(t, err.Error(), "unexpected DOM structure")
		assert.Zero(t, result)
		assert.Equal(t, 1, released, "패닉 경로에서도 브라우저는 정확히 한 번 해제되어야 한다")
		assert.Equal(t, StateError, session.state)
	})
}

func TestNewLauncher(t *testing.T) {
	t.Parallel()

	t.Run("뷰포트와_같은_크기의_창_크기가_설정된다", func(t *testing.T) {
		t.Parallel()

		l := newLauncher(&config.CrawlerConfig{Headless: true})

		assert.Equal(t, "1920,1080", l.Get("window-size"))
	})
}

func TestViewportOverride(t *testing.T) {
	t.Parallel()

	override := viewportOverride()

	assert.Equal(t, viewportWidth, override.Width)
	assert.Equal(t, viewportHeight, override.Height)
	assert.Equal(t, float64(1), override.DeviceScaleFactor)
	assert.False(t, override.Mobile)
}
