// Package product 상품 검색, 수집, 추천의 서비스 경계를 제공합니다.
//
// 두 개의 수집 경로를 가집니다.
//   - 파트너 API 경로: 네이버 쇼핑 검색 API로 조회한 상품을 업서트합니다.
//   - 스크래핑 경로: 헤드리스 브라우저로 추출한 상품을 새 행으로 저장합니다.
package product

import (
	"context"

	"github.com/giftdeum/gift-server/internal/model"
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	"github.com/giftdeum/gift-server/internal/pkg/paging"
	"github.com/giftdeum/gift-server/internal/service/product/naver"
	applog "github.com/giftdeum/gift-server/pkg/log"
)

// component 상품 서비스 로깅용 컴포넌트 이름
const component = "product"

// Searcher 파트너 API 상품 검색 기능을 제공합니다.
type Searcher interface {
	Search(ctx context.Context, query string, page int, sort model.Sort) (*naver.SearchResult, error)
	PageSize() int
}

// Crawler 스크래핑 기반 상품 검색 기능을 제공합니다.
type Crawler interface {
	// Search 검색어와 가격 범위로 대상 사이트를 스크래핑하여 상품 레코드를 추출합니다.
	Search(ctx context.Context, query string, minPrice, maxPrice int64) ([]*model.ExternalProductRecord, error)
}

// ProductStore 상품 영속화 기능을 제공합니다.
type ProductStore interface {
	Upsert(ctx context.Context, record *model.ExternalProductRecord) (*model.Product, error)
	Insert(ctx context.Context, record *model.ExternalProductRecord, tagIDs []int64) (*model.Product, error)
	FindManyByQuery(ctx context.Context, query string, offset, limit int, sort model.Sort) ([]*model.Product, int64, error)
}

// Service 상품 서비스입니다.
type Service struct {
	searcher Searcher
	crawler  Crawler
	store    ProductStore
}

// NewService 새로운 상품 서비스를 생성합니다.
func NewService(searcher Searcher, crawler Crawler, store ProductStore) *Service {
	return &Service{
		searcher: searcher,
		crawler:  crawler,
		store:    store,
	}
}

// IngestFailure 수집 배치에서 저장에 실패한 레코드와 그 원인입니다.
type IngestFailure struct {
	Record *model.ExternalProductRecord
	Reason error
}

// IngestResult 수집 배치의 처리 결과입니다.
// Succeeded와 Failed를 합한 수는 입력 레코드 수와 같으며, 각 목록의 순서는
// 입력 순서를 따릅니다.
type IngestResult struct {
	Succeeded []*model.Product
	Failed    []*IngestFailure
}

// Recommendation 스크래핑 경로의 추천 결과입니다.
type Recommendation struct {
	// Keyword 추천에 사용된 검색어입니다.
	Keyword string `json:"keyword"`

	// Items 추천 상품 목록입니다. 대상 사이트에 결과가 없으면 비어 있습니다.
	Items []*model.Product `json:"items"`
}

// ProductPage 파트너 API 경로의 페이지 단위 검색 결과입니다.
type ProductPage struct {
	Products   []*model.Product `json:"products"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// Ingest 외부 출처 레코드 배치를 저장소에 반영합니다.
//
// 외부 식별자를 가진 레코드는 업서트되고, 없는 레코드는 태그와 함께 새 행으로
// 삽입됩니다. 개별 레코드의 저장 실패는 배치를 중단시키지 않으며, 실패한
// 레코드는 원인과 함께 결과의 Failed 목록으로 수집됩니다.
func (s *Service) Ingest(ctx context.Context, records []*model.ExternalProductRecord, tagIDs []int64) (*IngestResult, error) {
	result := &IngestResult{}

	for _, record := range records {
		var (
			product *model.Product
			err     error
		)
		if record.HasExternalID() {
			product, err = s.store.Upsert(ctx, record)
		} else {
			product, err = s.store.Insert(ctx, record, tagIDs)
		}

		if err != nil {
			// 컨텍스트가 취소된 경우에는 남은 레코드의 저장도 모두 실패할 것이므로
			// 배치 전체를 실패로 처리한다.
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			applog.WithComponent(component).WithContext(ctx).
				WithField("title", record.Title).
				WithField("naver_product_id", record.NaverProductID).
				WithError(err).
				Error("상품 레코드의 저장이 실패하였습니다.")

			result.Failed = append(result.Failed, &IngestFailure{Record: record, Reason: err})
			continue
		}

		result.Succeeded = append(result.Succeeded, product)
	}

	return result, nil
}

// GetProducts 검색어와 가격 범위로 스크래핑 기반의 선물 추천 목록을 구성합니다.
//
// 대상 사이트에 검색 결과가 없는 경우는 실패가 아니라 빈 추천으로 처리됩니다.
// 추출된 상품은 주어진 태그와 함께 저장된 뒤 반환됩니다.
func (s *Service) GetProducts(ctx context.Context, query string, minPrice, maxPrice int64, tagIDs []int64) (*Recommendation, error) {
	if query == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "검색어는 비워둘 수 없습니다.")
	}

	records, err := s.crawler.Search(ctx, query, minPrice, maxPrice)
	if err != nil {
		if apperrors.Is(err, apperrors.NotFound) {
			applog.WithComponent(component).WithContext(ctx).
				WithField("query", query).
				Debug("대상 사이트에 검색 결과가 없습니다.")

			return &Recommendation{Keyword: query, Items: []*model.Product{}}, nil
		}
		return nil, err
	}

	ingested, err := s.Ingest(ctx, records, tagIDs)
	if err != nil {
		return nil, err
	}

	items := ingested.Succeeded
	if items == nil {
		items = []*model.Product{}
	}

	return &Recommendation{Keyword: query, Items: items}, nil
}

// FindMany 파트너 API로 상품을 검색하고, 조회된 페이지를 저장소에 업서트한 뒤
// 저장된 행을 페이지 정보와 함께 반환합니다.
func (s *Service) FindMany(ctx context.Context, query string, page int, sort model.Sort) (*ProductPage, error) {
	if query == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "검색어는 비워둘 수 없습니다.")
	}
	if page < 1 {
		return nil, apperrors.Newf(apperrors.InvalidInput, "페이지 번호는 1 이상이어야 합니다.(입력값:%d)", page)
	}
	if sort == "" {
		sort = model.SortRelevance
	}

	searched, err := s.searcher.Search(ctx, query, page, sort)
	if err != nil {
		return nil, err
	}

	ingested, err := s.Ingest(ctx, searched.Items, nil)
	if err != nil {
		return nil, err
	}
	if len(ingested.Failed) > 0 {
		applog.WithComponent(component).WithContext(ctx).
			WithField("query", query).
			WithField("failed_count", len(ingested.Failed)).
			Warn("검색된 상품 중 일부의 저장이 실패하였습니다.")
	}

	pageSize := s.searcher.PageSize()
	products := ingested.Succeeded
	if products == nil {
		products = []*model.Product{}
	}

	return &ProductPage{
		Products:   products,
		PageSize:   pageSize,
		Total:      searched.Total,
		TotalPages: paging.TotalPages(searched.Total, pageSize),
	}, nil
}

// FindStored 저장소에 이미 수집된 상품을 페이지 단위로 조회합니다.
// 외부 API를 호출하지 않으므로 업스트림 장애와 무관하게 동작합니다.
func (s *Service) FindStored(ctx context.Context, query string, page, pageSize int, sort model.Sort) (*ProductPage, error) {
	if page < 1 {
		return nil, apperrors.Newf(apperrors.InvalidInput, "페이지 번호는 1 이상이어야 합니다.(입력값:%d)", page)
	}
	if pageSize < 1 {
		return nil, apperrors.Newf(apperrors.InvalidInput, "페이지 크기는 1 이상이어야 합니다.(입력값:%d)", pageSize)
	}

	products, total, err := s.store.FindManyByQuery(ctx, query, paging.Skip(page, pageSize), pageSize, sort)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []*model.Product{}
	}

	return &ProductPage{
		Products:   products,
		PageSize:   pageSize,
		Total:      int(total),
		TotalPages: paging.TotalPages(int(total), pageSize),
	}, nil
}
