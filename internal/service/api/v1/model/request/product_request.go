// Package request v1 API의 요청 모델을 정의합니다.
package request

// FindProductsRequest GET /api/v1/products의 쿼리 파라미터입니다.
type FindProductsRequest struct {
	// Query 검색어입니다.
	Query string `query:"query" validate:"required" korean:"검색어"`

	// Page 조회할 페이지 번호(1부터 시작)입니다. 생략 시 1로 처리됩니다.
	Page int `query:"page" validate:"omitempty,min=1" korean:"페이지 번호"`

	// Sort 정렬 방식입니다. 생략 시 정확도순(sim)으로 처리됩니다.
	Sort string `query:"sort" validate:"omitempty,oneof=sim date asc dsc" korean:"정렬 방식"`
}

// Normalize 생략된 파라미터에 기본값을 적용합니다.
func (r *FindProductsRequest) Normalize() {
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Sort == "" {
		r.Sort = "sim"
	}
}

// RecommendProductsRequest GET /api/v1/products/recommend의 쿼리 파라미터입니다.
type RecommendProductsRequest struct {
	// Query 추천에 사용할 검색어입니다.
	Query string `query:"query" validate:"required" korean:"검색어"`

	// MinPrice 최소 가격(원)입니다. 0은 제한 없음을 의미합니다.
	MinPrice int64 `query:"min_price" validate:"omitempty,min=0" korean:"최소 가격"`

	// MaxPrice 최대 가격(원)입니다. 0은 제한 없음을 의미합니다.
	MaxPrice int64 `query:"max_price" validate:"omitempty,min=0" korean:"최대 가격"`

	// TagIDs 새로 저장되는 상품에 연결할 태그 식별자 목록입니다.
	TagIDs []int64 `query:"tag_ids" validate:"omitempty,dive,min=1" korean:"태그 식별자"`
}
