package watcher

import (
	"testing"

	"github.com/giftdeum/gift-server/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotKey(t *testing.T) {
	t.Parallel()

	naverProductID := "88123456789"
	emptyProductID := ""

	tests := []struct {
		name    string
		product *model.Product
		want    string
	}{
		{
			name: "네이버_상품_ID가_있으면_이를_우선_사용한다",
			product: &model.Product{
				NaverProductID: &naverProductID,
				Link:           "https://example.com/1",
			},
			want: "naver:88123456789",
		},
		{
			name: "네이버_상품_ID가_없으면_링크를_사용한다",
			product: &model.Product{
				Link: "https://example.com/1",
			},
			want: "link:https://example.com/1",
		},
		{
			name: "네이버_상품_ID가_빈_문자열이면_링크를_사용한다",
			product: &model.Product{
				NaverProductID: &emptyProductID,
				Link:           "https://example.com/1",
			},
			want: "link:https://example.com/1",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, snapshotKey(tt.product))
		})
	}
}

func TestDiffSnapshots(t *testing.T) {
	t.Parallel()

	old := &Snapshot{
		Query: "레고",
		Items: []SnapshotItem{
			{Key: "naver:1", Title: "레고 클래식", Price: 30000, Link: "https://example.com/1"},
			{Key: "naver:2", Title: "레고 시티", Price: 50000, Link: "https://example.com/2"},
			{Key: "naver:3", Title: "레고 테크닉", Price: 120000, Link: "https://example.com/3"},
		},
	}

	t.Run("신규_상품을_감지한다", func(t *testing.T) {
		t.Parallel()

		current := []SnapshotItem{
			{Key: "naver:1", Price: 30000},
			{Key: "naver:2", Price: 50000},
			{Key: "naver:3", Price: 120000},
			{Key: "naver:4", Title: "레고 프렌즈", Price: 40000},
		}

		changes := diffSnapshots(old, current)

		require.Len(t, changes.NewItems, 1)
		assert.Equal(t, "naver:4", changes.NewItems[0].Key)
		assert.Empty(t, changes.PriceDrops)
		assert.False(t, changes.Empty())
	})

	t.Run("가격_인하를_감지한다", func(t *testing.T) {
		t.Parallel()

		current := []SnapshotItem{
			{Key: "naver:1", Price: 30000},
			{Key: "naver:2", Title: "레고 시티", Price: 45000},
			{Key: "naver:3", Price: 120000},
		}

		changes := diffSnapshots(old, current)

		require.Len(t, changes.PriceDrops, 1)
		assert.Equal(t, "naver:2", changes.PriceDrops[0].Item.Key)
		assert.Equal(t, int64(45000), changes.PriceDrops[0].Item.Price)
		assert.Equal(t, int64(50000), changes.PriceDrops[0].OldPrice)
		assert.Empty(t, changes.NewItems)
	})

	t.Run("가격_인상은_변동으로_취급하지_않는다", func(t *testing.T) {
		t.Parallel()

		current := []SnapshotItem{
			{Key: "naver:1", Price: 35000},
			{Key: "naver:2", Price: 50000},
			{Key: "naver:3", Price: 120000},
		}

		changes := diffSnapshots(old, current)

		assert.True(t, changes.Empty())
	})

	t.Run("사라진_상품은_변동으로_취급하지_않는다", func(t *testing.T) {
		t.Parallel()

		current := []SnapshotItem{
			{Key: "naver:1", Price: 30000},
		}

		changes := diffSnapshots(old, current)

		assert.True(t, changes.Empty())
	})

	t.Run("직전_스냅샷이_비어_있으면_모든_상품이_신규이다", func(t *testing.T) {
		t.Parallel()

		current := []SnapshotItem{
			{Key: "naver:1", Price: 30000},
			{Key: "naver:2", Price: 50000},
		}

		changes := diffSnapshots(&Snapshot{}, current)

		assert.Len(t, changes.NewItems, 2)
	})
}
