package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/giftdeum/gift-server/internal/model"
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
)

// TagStore 태그 저장소입니다.
type TagStore struct {
	db *sql.DB
}

// NewTagStore 새로운 TagStore를 생성합니다.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// GetOrCreate 이름 목록에 해당하는 태그를 조회하고, 존재하지 않는 태그는 생성합니다.
// 태그 이름은 대소문자를 구분하며, 반환 순서는 입력 이름의 순서를 따릅니다.
func (s *TagStore) GetOrCreate(ctx context.Context, names []string) ([]*model.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	// 동시 생성 경합은 ON CONFLICT DO NOTHING으로 해소하고, 이어지는 SELECT로
	// 누가 생성했든 최종 행을 읽어온다.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (name)
		SELECT name FROM unnest($1::text[]) AS name
		ON CONFLICT (name) DO NOTHING`, pq.Array(names))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "태그의 생성이 실패하였습니다.")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM tags WHERE name = ANY($1)`, pq.Array(names))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "태그의 조회가 실패하였습니다.")
	}
	defer rows.Close()

	byName := make(map[string]*model.Tag, len(names))
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "태그 행의 스캔이 실패하였습니다.")
		}
		byName[tag.Name] = &tag
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "태그 목록의 순회가 실패하였습니다.")
	}

	tags := make([]*model.Tag, 0, len(names))
	for _, name := range names {
		if tag, ok := byName[name]; ok {
			tags = append(tags, tag)
		}
	}

	return tags, nil
}

// FindByIDs 식별자 목록에 해당하는 태그를 조회합니다.
// 존재하지 않는 식별자는 결과에서 제외됩니다.
func (s *TagStore) FindByIDs(ctx context.Context, ids []int64) ([]*model.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return loadTags(ctx, s.db, ids)
}

// queryer sql.DB와 sql.Tx의 공통 조회 인터페이스입니다.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// loadTags 식별자 목록에 해당하는 태그를 조회합니다.
func loadTags(ctx context.Context, q queryer, ids []int64) ([]*model.Tag, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name FROM tags WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "태그의 조회가 실패하였습니다.")
	}
	defer rows.Close()

	var tags []*model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "태그 행의 스캔이 실패하였습니다.")
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "태그 목록의 순회가 실패하였습니다.")
	}

	return tags, nil
}
