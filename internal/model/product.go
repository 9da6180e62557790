// Package model 선물 추천 서비스의 도메인 모델을 정의합니다.
package model

import (
	"time"
)

// Sort 상품 목록의 정렬 방식입니다.
// 네이버 쇼핑 오픈API의 sort 파라미터 값을 그대로 사용합니다.
type Sort string

const (
	// SortRelevance 정확도순 정렬입니다.
	SortRelevance Sort = "sim"
	// SortNewest 날짜순 정렬입니다.
	SortNewest Sort = "date"
	// SortPriceAsc 가격 오름차순 정렬입니다.
	SortPriceAsc Sort = "asc"
	// SortPriceDesc 가격 내림차순 정렬입니다.
	SortPriceDesc Sort = "dsc"
)

// Valid 지원되는 정렬 방식인지 확인합니다.
func (s Sort) Valid() bool {
	switch s {
	case SortRelevance, SortNewest, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

// Product 저장소에 영속화된 상품입니다.
type Product struct {
	// ID 저장소가 부여한 내부 식별자입니다.
	ID int64 `json:"id"`

	// Title 상품명입니다. 외부 출처의 HTML 태그는 저장 전에 제거됩니다.
	Title string `json:"title"`

	// Image 상품 이미지 URL입니다.
	Image string `json:"image"`

	// Link 상품 상세 페이지 URL입니다.
	Link string `json:"link"`

	// Price 상품 가격(원)입니다. 음수가 될 수 없습니다.
	Price int64 `json:"price"`

	// Seller 판매처 이름입니다.
	Seller string `json:"seller"`

	// NaverProductID 네이버 쇼핑의 상품 식별자입니다.
	// 파트너 API로 수집된 상품에만 존재하며, 존재하는 경우 저장소 전체에서 유일합니다.
	// 스크래핑으로 수집된 상품은 안정적인 외부 식별자가 없으므로 nil입니다.
	NaverProductID *string `json:"naver_product_id,omitempty"`

	// WishedCount 위시리스트에 담긴 횟수입니다. 음수가 될 수 없습니다.
	WishedCount int64 `json:"wished_count"`

	// LikedCount 좋아요 횟수입니다. 음수가 될 수 없습니다.
	LikedCount int64 `json:"liked_count"`

	// AverageRating 리뷰 평균 평점입니다. 리뷰 서브시스템이 갱신합니다.
	AverageRating float64 `json:"average_rating"`

	// CreatedAt 최초 저장 시각입니다. 이후 변경되지 않습니다.
	CreatedAt time.Time `json:"created_at"`

	// Tags 상품에 연결된 태그 목록입니다.
	Tags []*Tag `json:"tags,omitempty"`
}

// Tag 상품 분류용 태그입니다. 이름으로 유일하며, 최초 참조 시 암묵적으로 생성됩니다.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ExternalProductRecord 외부 출처(파트너 API 또는 스크래핑)에서 수집된 상품 레코드입니다.
// 저장소에 반영되기 전의 일시적인 값으로, 영속화되지 않습니다.
type ExternalProductRecord struct {
	Title  string
	Image  string
	Link   string
	Price  int64
	Seller string

	// NaverProductID 네이버 쇼핑의 상품 식별자입니다.
	// 파트너 API 출처인 경우에만 값이 존재하며, 빈 문자열은 식별자 없음을 의미합니다.
	NaverProductID string
}

// HasExternalID 외부 식별자를 가진 레코드인지 확인합니다.
// 외부 식별자가 있는 레코드는 업서트 대상이며, 없는 레코드는 항상 새 행으로 저장됩니다.
func (r *ExternalProductRecord) HasExternalID() bool {
	return r.NaverProductID != ""
}
