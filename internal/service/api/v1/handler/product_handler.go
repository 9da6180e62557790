// Package handler v1 API의 핸들러를 제공합니다.
package handler

import (
	"context"
	"net/http"

	"github.com/giftdeum/gift-server/internal/model"
	"github.com/giftdeum/gift-server/internal/service/api/handler"
	"github.com/giftdeum/gift-server/internal/service/api/httputil"
	"github.com/giftdeum/gift-server/internal/service/api/v1/model/request"
	"github.com/giftdeum/gift-server/internal/service/product"
	"github.com/labstack/echo/v4"
)

// ProductProvider 상품 검색과 추천 기능을 제공하는 서비스 경계입니다.
type ProductProvider interface {
	// FindMany 파트너 API로 상품을 검색하고 저장된 행을 페이지 단위로 반환합니다.
	FindMany(ctx context.Context, query string, page int, sort model.Sort) (*product.ProductPage, error)

	// GetProducts 스크래핑 기반의 선물 추천 목록을 반환합니다.
	GetProducts(ctx context.Context, query string, minPrice, maxPrice int64, tagIDs []int64) (*product.Recommendation, error)
}

// Handler v1 API 핸들러입니다.
type Handler struct {
	products ProductProvider
}

// NewHandler 새로운 v1 API 핸들러를 생성합니다.
// products가 nil이면 패닉이 발생합니다.
func NewHandler(products ProductProvider) *Handler {
	if products == nil {
		panic("ProductProvider는 필수입니다")
	}

	return &Handler{products: products}
}

// FindProducts 검색어로 상품을 검색합니다.
func (h *Handler) FindProducts(c echo.Context) error {
	var req request.FindProductsRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError("요청 파라미터의 형식이 올바르지 않습니다.")
	}
	if err := handler.ValidateRequest(&req); err != nil {
		return httputil.NewBadRequestError(handler.FormatValidationError(err))
	}
	req.Normalize()

	page, err := h.products.FindMany(c.Request().Context(), req.Query, req.Page, model.Sort(req.Sort))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

// RecommendProducts 검색어와 가격 범위로 선물 추천 목록을 반환합니다.
func (h *Handler) RecommendProducts(c echo.Context) error {
	var req request.RecommendProductsRequest
	if err := c.Bind(&req); err != nil {
		return httputil.NewBadRequestError("요청 파라미터의 형식이 올바르지 않습니다.")
	}
	if err := handler.ValidateRequest(&req); err != nil {
		return httputil.NewBadRequestError(handler.FormatValidationError(err))
	}
	if req.MaxPrice > 0 && req.MinPrice > req.MaxPrice {
		return httputil.NewBadRequestError("최소 가격은 최대 가격보다 클 수 없습니다.")
	}

	recommendation, err := h.products.GetProducts(c.Request().Context(), req.Query, req.MinPrice, req.MaxPrice, req.TagIDs)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, recommendation)
}
