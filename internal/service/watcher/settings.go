package watcher

import (
	"github.com/giftdeum/gift-server/internal/model"
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	"github.com/giftdeum/gift-server/pkg/maputil"
)

const (
	// defaultPageLimit 변동 비교에 사용할 기본 검색 페이지 수입니다.
	defaultPageLimit = 1

	// maxPageLimit 한 번의 감시 실행에서 허용되는 최대 검색 페이지 수입니다.
	// 과도한 외부 API 호출을 방지합니다.
	maxPageLimit = 5
)

// watchSettings 감시 작업별 자유 형식 설정(data)의 해석 결과입니다.
type watchSettings struct {
	// Sort 검색 정렬 방식입니다. 생략 시 정확도순(sim)이 적용됩니다.
	Sort string `json:"sort"`

	// PageLimit 변동 비교에 사용할 검색 페이지 수입니다. 생략 시 1페이지만 비교합니다.
	PageLimit int `json:"page_limit"`
}

// Validate 설정 값의 유효성을 검증합니다.
func (s *watchSettings) Validate() error {
	if !model.Sort(s.Sort).Valid() {
		return apperrors.Newf(apperrors.InvalidInput, "감시 작업의 정렬 방식(sort)이 유효하지 않습니다: '%s'", s.Sort)
	}
	return nil
}

// decodeWatchSettings 감시 작업 설정의 data 블록을 해석하고 기본값을 적용합니다.
func decodeWatchSettings(data map[string]any) (*watchSettings, error) {
	settings := &watchSettings{}

	if len(data) > 0 {
		// 설정 키의 오타가 조용히 무시되지 않도록 알 수 없는 필드를 에러로 처리한다.
		decoded, err := maputil.Decode[watchSettings](data, maputil.WithErrorUnused())
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.InvalidInput, "감시 작업 설정(data)을 해석할 수 없습니다")
		}
		settings = decoded
	}

	if settings.Sort == "" {
		settings.Sort = string(model.SortRelevance)
	}
	if settings.PageLimit <= 0 {
		settings.PageLimit = defaultPageLimit
	}
	if settings.PageLimit > maxPageLimit {
		settings.PageLimit = maxPageLimit
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}
