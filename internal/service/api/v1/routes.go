// Package v1 상품 조회 API의 v1 버전 라우트를 정의하고 설정합니다.
//
// 이 패키지는 /api/v1 경로 하위의 모든 엔드포인트를 관리합니다.
//
// 주요 엔드포인트:
//   - GET /api/v1/products           - 검색어 기반 상품 목록 조회 (페이지네이션)
//   - GET /api/v1/products/recommend - 검색어와 가격 범위 기반 선물 추천
package v1

import (
	"github.com/giftdeum/gift-server/internal/service/api/v1/handler"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes Echo 인스턴스에 v1 API 라우트를 설정합니다.
func RegisterRoutes(e *echo.Echo, h *handler.Handler) {
	v1Group := e.Group("/api/v1")

	v1Group.GET("/products", h.FindProducts)
	v1Group.GET("/products/recommend", h.RecommendProducts)
}
