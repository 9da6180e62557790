package postgres

import (
	"context"
	"database/sql"

	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
)

// schemaStatements 저장소가 사용하는 테이블과 인덱스의 생성 구문입니다.
// 모든 구문은 멱등하므로 서버 기동 시마다 실행해도 안전합니다.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id               BIGSERIAL PRIMARY KEY,
		title            TEXT NOT NULL,
		image            TEXT NOT NULL DEFAULT '',
		link             TEXT NOT NULL DEFAULT '',
		price            BIGINT NOT NULL CHECK (price >= 0),
		seller           TEXT NOT NULL DEFAULT '',
		naver_product_id TEXT UNIQUE,
		wished_count     BIGINT NOT NULL DEFAULT 0 CHECK (wished_count >= 0),
		liked_count      BIGINT NOT NULL DEFAULT 0 CHECK (liked_count >= 0),
		average_rating   DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS product_tags (
		product_id BIGINT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		tag_id     BIGINT NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
		PRIMARY KEY (product_id, tag_id)
	)`,

	// 위시리스트 멤버십 행입니다. 카운터 감소는 이 행의 존재를 전제로만 허용됩니다.
	`CREATE TABLE IF NOT EXISTS wishlist_items (
		user_ref   TEXT NOT NULL,
		product_id BIGINT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_ref, product_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_products_title ON products (title)`,
	`CREATE INDEX IF NOT EXISTS idx_products_price ON products (price)`,
	`CREATE INDEX IF NOT EXISTS idx_products_updated_at ON products (updated_at DESC)`,
}

// Bootstrap 저장소 스키마를 생성합니다.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return apperrors.Wrap(err, apperrors.System, "저장소 스키마의 생성이 실패하였습니다.")
		}
	}
	return nil
}
