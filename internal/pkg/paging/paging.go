// Package paging 목록 조회 API의 페이지네이션 계산을 담당하는 순수 함수들을 제공합니다.
//
// 모든 함수는 부수 효과가 없으며, 유효 범위를 벗어난 입력값은
// 에러 대신 안전한 최소값으로 보정합니다. (page < 1 → 1, pageSize < 1 → 1)
package paging

// Skip 지정된 페이지의 첫 항목에 도달하기 위해 건너뛰어야 할 항목 수를 반환합니다.
//
// 계산식: (page - 1) * pageSize
// 반환값은 항상 0 이상입니다.
func Skip(page, pageSize int) int {
	page = normalizePage(page)
	pageSize = normalizePageSize(pageSize)

	return (page - 1) * pageSize
}

// TotalPages 전체 항목 수를 페이지 크기로 나눈 총 페이지 수를 반환합니다. (올림 처리)
//
// totalItems가 0 이하이면 0을 반환합니다.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 {
		return 0
	}
	pageSize = normalizePageSize(pageSize)

	return (totalItems + pageSize - 1) / pageSize
}

// HasMore 현재 페이지 이후에 조회할 항목이 남아있는지 여부를 반환합니다.
func HasMore(totalItems, page, pageSize int) bool {
	page = normalizePage(page)
	pageSize = normalizePageSize(pageSize)

	return totalItems-page*pageSize > 0
}

// normalizePage 페이지 번호를 유효 범위(1 이상)로 보정합니다.
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// normalizePageSize 페이지 크기를 유효 범위(1 이상)로 보정합니다.
func normalizePageSize(pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	return pageSize
}
