package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/giftdeum/gift-server/internal/model"
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
)

// productColumns products 테이블에서 Product를 구성하는 데 필요한 컬럼 목록입니다.
const productColumns = `id, title, image, link, price, seller, naver_product_id, wished_count, liked_count, average_rating, created_at`

// ProductStore 상품 저장소입니다.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore 새로운 ProductStore를 생성합니다.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// Upsert 외부 식별자를 가진 레코드를 업서트합니다.
//
// 동일한 naver_product_id의 행이 이미 존재하면 상품명, 가격, 판매처, 이미지, 링크를
// 갱신하고, 존재하지 않으면 새 행을 삽입합니다. 어느 경우든 저장된 행을 반환합니다.
func (s *ProductStore) Upsert(ctx context.Context, record *model.ExternalProductRecord) (*model.Product, error) {
	if !record.HasExternalID() {
		return nil, apperrors.New(apperrors.Internal, "외부 식별자가 없는 레코드는 업서트할 수 없습니다.")
	}

	query := `
		INSERT INTO products (title, image, link, price, seller, naver_product_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (naver_product_id) DO UPDATE SET
			title      = EXCLUDED.title,
			image      = EXCLUDED.image,
			link       = EXCLUDED.link,
			price      = EXCLUDED.price,
			seller     = EXCLUDED.seller,
			updated_at = now()
		RETURNING ` + productColumns

	product, err := scanProduct(s.db.QueryRowContext(ctx, query,
		record.Title, record.Image, record.Link, record.Price, record.Seller, record.NaverProductID))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ExecutionFailed, "상품의 업서트가 실패하였습니다.(네이버 상품 ID:%s)", record.NaverProductID)
	}

	return product, nil
}

// Insert 외부 식별자가 없는 레코드를 새 행으로 삽입하고 태그를 연결합니다.
// 스크래핑으로 수집된 상품은 중복 제거 키가 없으므로 항상 새 행이 됩니다.
func (s *ProductStore) Insert(ctx context.Context, record *model.ExternalProductRecord, tagIDs []int64) (*model.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "트랜잭션의 시작이 실패하였습니다.")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO products (title, image, link, price, seller)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + productColumns

	product, err := scanProduct(tx.QueryRowContext(ctx, query,
		record.Title, record.Image, record.Link, record.Price, record.Seller))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ExecutionFailed, "상품의 삽입이 실패하였습니다.(상품명:%s)", record.Title)
	}

	if len(tagIDs) > 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO product_tags (product_id, tag_id)
			SELECT $1, tag_id FROM unnest($2::bigint[]) AS tag_id
			ON CONFLICT DO NOTHING`, product.ID, pq.Array(tagIDs))
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ExecutionFailed, "상품 태그의 연결이 실패하였습니다.(상품 ID:%d)", product.ID)
		}

		product.Tags, err = loadTags(ctx, tx, tagIDs)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "트랜잭션의 커밋이 실패하였습니다.")
	}

	return product, nil
}

// FindByID 내부 식별자로 상품을 조회합니다. 존재하지 않으면 NotFound 에러를 반환합니다.
func (s *ProductStore) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := scanProduct(s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Newf(apperrors.NotFound, "상품을 찾을 수 없습니다.(ID:%d)", id)
		}
		return nil, apperrors.Wrapf(err, apperrors.ExecutionFailed, "상품의 조회가 실패하였습니다.(ID:%d)", id)
	}
	return product, nil
}

// FindManyByQuery 상품명에 검색어가 포함된 상품을 페이지 단위로 조회합니다.
// 태그는 함께 로드되며, 반환값의 두 번째 요소는 검색 조건에 해당하는 전체 행 수입니다.
func (s *ProductStore) FindManyByQuery(ctx context.Context, query string, offset, limit int, sort model.Sort) ([]*model.Product, int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM products WHERE title ILIKE '%' || $1 || '%'`, query).Scan(&total)
	if err != nil {
		return nil, 0, apperrors.Wrapf(err, apperrors.ExecutionFailed, "상품 수의 조회가 실패하였습니다.(검색어:%s)", query)
	}

	listQuery := fmt.Sprintf(`
		SELECT p.id, p.title, p.image, p.link, p.price, p.seller, p.naver_product_id,
		       p.wished_count, p.liked_count, p.average_rating, p.created_at,
		       COALESCE(array_agg(t.id) FILTER (WHERE t.id IS NOT NULL), '{}'),
		       COALESCE(array_agg(t.name) FILTER (WHERE t.id IS NOT NULL), '{}')
		FROM products p
		LEFT JOIN product_tags pt ON pt.product_id = p.id
		LEFT JOIN tags t ON t.id = pt.tag_id
		WHERE p.title ILIKE '%%' || $1 || '%%'
		GROUP BY p.id
		ORDER BY %s
		LIMIT $2 OFFSET $3`, orderClause(sort))

	rows, err := s.db.QueryContext(ctx, listQuery, query, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Wrapf(err, apperrors.ExecutionFailed, "상품 목록의 조회가 실패하였습니다.(검색어:%s)", query)
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		var (
			p              model.Product
			naverProductID sql.NullString
			tagIDs         pq.Int64Array
			tagNames       pq.StringArray
		)
		err := rows.Scan(&p.ID, &p.Title, &p.Image, &p.Link, &p.Price, &p.Seller, &naverProductID,
			&p.WishedCount, &p.LikedCount, &p.AverageRating, &p.CreatedAt, &tagIDs, &tagNames)
		if err != nil {
			return nil, 0, apperrors.Wrap(err, apperrors.ExecutionFailed, "상품 행의 스캔이 실패하였습니다.")
		}

		if naverProductID.Valid {
			p.NaverProductID = &naverProductID.String
		}
		for i := range tagIDs {
			p.Tags = append(p.Tags, &model.Tag{ID: tagIDs[i], Name: tagNames[i]})
		}

		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Wrapf(err, apperrors.ExecutionFailed, "상품 목록의 순회가 실패하였습니다.(검색어:%s)", query)
	}

	return products, total, nil
}

// AddWish 위시리스트 멤버십 행을 추가하고 wished_count를 증가시킵니다.
// 이미 담긴 상품이면 아무 변화 없이 성공으로 처리합니다.
func (s *ProductStore) AddWish(ctx context.Context, userRef string, productID int64) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO wishlist_items (user_ref, product_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userRef, productID)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ExecutionFailed, "위시리스트 추가가 실패하였습니다.(상품 ID:%d)", productID)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ExecutionFailed, "위시리스트 추가 결과의 확인이 실패하였습니다.")
	}
	if inserted == 0 {
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE products SET wished_count = wished_count + 1 WHERE id = $1`, productID)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ExecutionFailed, "위시리스트 카운터의 증가가 실패하였습니다.(상품 ID:%d)", productID)
	}

	return nil
}

// RemoveWish 위시리스트 멤버십 행을 삭제하고 wished_count를 감소시킵니다.
//
// 카운터 감소는 멤버십 행이 실제로 삭제된 경우에만 수행되므로, 담은 적 없는
// 상품에 대해 호출되어도 카운터가 음수로 내려가지 않습니다.
func (s *ProductStore) RemoveWish(ctx context.Context, userRef string, productID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM wishlist_items WHERE user_ref = $1 AND product_id = $2`, userRef, productID)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ExecutionFailed, "위시리스트 삭제가 실패하였습니다.(상품 ID:%d)", productID)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ExecutionFailed, "위시리스트 삭제 결과의 확인이 실패하였습니다.")
	}
	if deleted == 0 {
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE products SET wished_count = wished_count - 1 WHERE id = $1 AND wished_count > 0`, productID)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ExecutionFailed, "위시리스트 카운터의 감소가 실패하였습니다.(상품 ID:%d)", productID)
	}

	return nil
}

// RefreshAverageRating 상품의 평균 평점을 갱신합니다. 리뷰 서브시스템이 호출합니다.
func (s *ProductStore) RefreshAverageRating(ctx context.Context, productID int64, rating float64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE products SET average_rating = $2 WHERE id = $1`, productID, rating)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ExecutionFailed, "평균 평점의 갱신이 실패하였습니다.(상품 ID:%d)", productID)
	}
	return nil
}

// rowScanner sql.Row와 sql.Rows의 공통 스캔 인터페이스입니다.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct 단일 상품 행을 Product로 스캔합니다.
func scanProduct(row rowScanner) (*model.Product, error) {
	var (
		p              model.Product
		naverProductID sql.NullString
	)
	err := row.Scan(&p.ID, &p.Title, &p.Image, &p.Link, &p.Price, &p.Seller, &naverProductID,
		&p.WishedCount, &p.LikedCount, &p.AverageRating, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	if naverProductID.Valid {
		p.NaverProductID = &naverProductID.String
	}

	return &p, nil
}

// orderClause 정렬 방식에 해당하는 ORDER BY 절을 반환합니다.
// 정확도순은 가장 최근에 갱신된 상품을 우선합니다.
func orderClause(sort model.Sort) string {
	switch sort {
	case model.SortNewest:
		return "p.created_at DESC, p.id DESC"
	case model.SortPriceAsc:
		return "p.price ASC, p.id ASC"
	case model.SortPriceDesc:
		return "p.price DESC, p.id ASC"
	default:
		return "p.updated_at DESC, p.id DESC"
	}
}
