// Package postgres PostgreSQL 기반의 상품/태그 저장소 구현입니다.
package postgres

import (
	"context"
	"database/sql"
	"time"

	// PostgreSQL 드라이버 등록
	_ "github.com/lib/pq"

	"github.com/giftdeum/gift-server/internal/config"
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	applog "github.com/giftdeum/gift-server/pkg/log"
)

// component 저장소 로깅용 컴포넌트 이름
const component = "storage.postgres"

const (
	// connectMaxRetries 데이터베이스 최초 연결 시의 최대 재시도 횟수입니다.
	// 컨테이너 환경에서 데이터베이스가 서버보다 늦게 기동되는 경우를 대비합니다.
	connectMaxRetries = 10

	// connectRetryDelay 연결 재시도 간의 대기 시간입니다.
	connectRetryDelay = 3 * time.Second
)

// Open 데이터베이스에 연결하고 연결 풀을 설정합니다.
// Ping으로 연결을 검증하며, 실패 시 일정 간격으로 재시도합니다.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "데이터베이스 연결의 초기화가 실패하였습니다.")
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	for i := 1; ; i++ {
		if err = db.PingContext(ctx); err == nil {
			applog.WithComponent(component).
				WithField("host", cfg.Host).
				WithField("database", cfg.Name).
				Info("데이터베이스에 연결되었습니다.")

			return db, nil
		}

		if i >= connectMaxRetries {
			break
		}

		applog.WithComponent(component).
			WithField("attempt", i).
			WithField("max_retries", connectMaxRetries).
			WithError(err).
			Warn("데이터베이스 연결이 실패하여 잠시 후 재시도합니다.")

		select {
		case <-time.After(connectRetryDelay):
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		}
	}

	_ = db.Close()

	return nil, apperrors.Wrapf(err, apperrors.System, "데이터베이스 연결이 실패하였습니다.(호스트:%s, DB:%s)", cfg.Host, cfg.Name)
}

// Store 상품과 태그 저장소를 묶어서 제공합니다.
type Store struct {
	db *sql.DB

	Products *ProductStore
	Tags     *TagStore
}

// NewStore 새로운 Store를 생성합니다.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:       db,
		Products: NewProductStore(db),
		Tags:     NewTagStore(db),
	}
}

// Close 데이터베이스 연결을 닫습니다.
func (s *Store) Close() error {
	return s.db.Close()
}
