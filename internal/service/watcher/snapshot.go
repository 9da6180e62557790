package watcher

import (
	"time"

	"github.com/giftdeum/gift-server/internal/model"
)

// Snapshot 감시 작업의 직전 검색 결과입니다.
// 다음 실행에서 이 결과와 비교하여 변동을 감지합니다.
type Snapshot struct {
	Query     string         `json:"query"`
	Items     []SnapshotItem `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SnapshotItem 스냅샷에 기록되는 개별 상품입니다.
type SnapshotItem struct {
	// Key 상품을 식별하는 키입니다. 네이버 상품 ID가 있으면 이를 우선 사용합니다.
	Key string `json:"key"`

	Title string `json:"title"`
	Price int64  `json:"price"`
	Link  string `json:"link"`
}

// snapshotKey 스냅샷 간 비교에 사용할 상품 식별 키를 반환합니다.
//
// 네이버 상품 ID는 재검색 시에도 안정적으로 유지되므로 우선 사용하고,
// 없는 경우 상품 링크로 대체합니다.
func snapshotKey(p *model.Product) string {
	if p.NaverProductID != nil && *p.NaverProductID != "" {
		return "naver:" + *p.NaverProductID
	}
	return "link:" + p.Link
}

// PriceDrop 가격이 인하된 상품의 변동 내역입니다.
type PriceDrop struct {
	Item     SnapshotItem
	OldPrice int64
}

// Changes 두 스냅샷 사이에서 감지된 변동 내역입니다.
type Changes struct {
	// NewItems 직전 스냅샷에 없던 신규 상품 목록입니다.
	NewItems []SnapshotItem

	// PriceDrops 직전 스냅샷보다 가격이 인하된 상품 목록입니다.
	PriceDrops []PriceDrop
}

// Empty 감지된 변동이 없는지 여부를 반환합니다.
func (c *Changes) Empty() bool {
	return len(c.NewItems) == 0 && len(c.PriceDrops) == 0
}

// diffSnapshots 직전 스냅샷과 현재 검색 결과를 비교하여 변동을 감지합니다.
//
// 신규 상품과 가격 인하만 변동으로 취급합니다. 가격 인상이나 스냅샷에서
// 사라진 상품은 검색 순위 변동으로 인한 노이즈가 많아 알림 대상에서 제외합니다.
func diffSnapshots(old *Snapshot, current []SnapshotItem) *Changes {
	known := make(map[string]int64)
	if old != nil {
		for _, item := range old.Items {
			known[item.Key] = item.Price
		}
	}

	changes := &Changes{}
	for _, item := range current {
		oldPrice, exists := known[item.Key]
		if !exists {
			changes.NewItems = append(changes.NewItems, item)
			continue
		}

		if item.Price < oldPrice {
			changes.PriceDrops = append(changes.PriceDrops, PriceDrop{
				Item:     item,
				OldPrice: oldPrice,
			})
		}
	}

	return changes
}
