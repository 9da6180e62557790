package fetcher

import (
	"context"
	"io"
	"net/http"
)

// component Fetcher 로깅용 컴포넌트 이름
const component = "fetcher"

// drainLimit 커넥션 재사용을 위해 응답 본문을 비울 때 읽어들이는 최대 바이트 수입니다.
const drainLimit = 64 * 1024

// Fetcher HTTP 요청을 수행하는 핵심 인터페이스입니다.
//
// 이 인터페이스는 다양한 HTTP 클라이언트 구현체들이 공통으로 따르는 규약을 정의합니다.
// 재시도, 로깅, User-Agent 설정 등의 기능을 데코레이터 패턴으로 조합할 수 있도록 설계되었습니다.
//
// 구현 시 주의사항:
//   - 반환된 응답 객체의 Body는 반드시 호출자가 닫아야 합니다.
//   - Context 취소 시 즉시 요청을 중단하고 적절한 에러를 반환해야 합니다.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)

	// Close 내부에서 사용 중인 커넥션 등의 리소스를 정리합니다.
	Close() error
}

// Get 지정된 URL로 HTTP GET 요청을 전송하는 헬퍼 함수입니다.
//
// 요청 실패 시 커넥션 재사용을 위해 응답 객체의 Body를 안전하게 비우고 닫습니다.
func Get(ctx context.Context, f Fetcher, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Do(req)
	if err != nil {
		if resp != nil {
			drainAndCloseBody(resp.Body)
		}
		return nil, err
	}

	return resp, nil
}

// drainAndCloseBody 응답 본문을 제한된 크기까지 읽어서 버린 뒤 닫습니다.
// 본문을 비우지 않고 닫으면 기존 TCP 커넥션이 재사용되지 못하고 끊어집니다.
func drainAndCloseBody(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, drainLimit))
	_ = body.Close()
}
