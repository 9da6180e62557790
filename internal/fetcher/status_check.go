package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"slices"

	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
)

// bodySnippetLimit 에러 객체에 포함시키는 응답 본문의 최대 크기(4KB)입니다.
const bodySnippetLimit = 4096

// StatusCodeFetcher HTTP 응답 상태 코드를 확인하고, 허용된 코드가 아니면 에러로 처리하는 미들웨어입니다.
type StatusCodeFetcher struct {
	delegate        Fetcher
	allowedStatuses []int
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Fetcher = (*StatusCodeFetcher)(nil)

// NewStatusCodeFetcher 새로운 StatusCodeFetcher 인스턴스를 생성합니다.
// allowedStatuses를 지정하지 않으면 200 OK만 허용합니다.
func NewStatusCodeFetcher(delegate Fetcher, allowedStatuses ...int) *StatusCodeFetcher {
	return &StatusCodeFetcher{
		delegate:        delegate,
		allowedStatuses: allowedStatuses,
	}
}

// Do HTTP 요청을 수행하고 응답 상태 코드를 검사합니다.
// 허용되지 않은 상태 코드인 경우 응답 본문 일부를 캡처한 HTTPStatusError를 반환하며,
// 커넥션 누수 방지를 위해 응답 바디를 닫고 nil Response를 반환합니다.
func (f *StatusCodeFetcher) Do(req *http.Request) (*http.Response, error) {
	resp, err := f.delegate.Do(req)
	if err != nil {
		return resp, err
	}

	allowed := f.allowedStatuses
	if len(allowed) == 0 {
		allowed = []int{http.StatusOK}
	}
	if slices.Contains(allowed, resp.StatusCode) {
		return resp, nil
	}

	statusErr := newHTTPStatusError(req, resp)
	drainAndCloseBody(resp.Body)
	return nil, statusErr
}

func (f *StatusCodeFetcher) Close() error {
	return f.delegate.Close()
}

// newHTTPStatusError 허용되지 않은 상태 코드의 응답으로부터 구조화된 에러를 생성합니다.
// 디버깅 편의를 위해 응답 본문의 일부를 읽어서 에러 객체에 포함시킵니다.
func newHTTPStatusError(req *http.Request, resp *http.Response) *HTTPStatusError {
	var bodySnippet string
	if resp.Body != nil {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, bodySnippetLimit))
		if len(bodyBytes) > 0 {
			bodySnippet = string(bodyBytes)
		}
	}

	return &HTTPStatusError{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		URL:         redactURL(req.URL),
		Header:      redactHeaders(resp.Header),
		BodySnippet: bodySnippet,
		Cause:       apperrors.New(statusToErrorType(resp.StatusCode), fmt.Sprintf("HTTP 요청이 실패했습니다. 상태 코드: %s", resp.Status)),
	}
}

// statusToErrorType HTTP 상태 코드를 도메인 에러 타입으로 변환합니다.
//
// 분류 기준:
//   - 5xx, 429, 408: 일시적인 서버 측 문제 (Unavailable, 재시도 대상)
//   - 400: 잘못된 요청 파라미터 (InvalidInput)
//   - 401/403: 인증/인가 실패 (Unauthorized/Forbidden)
//   - 404: 리소스 없음 (NotFound)
//   - 그 외: 실행 실패 (ExecutionFailed)
func statusToErrorType(statusCode int) apperrors.ErrorType {
	switch {
	case statusCode >= 500 || statusCode == http.StatusTooManyRequests || statusCode == http.StatusRequestTimeout:
		return apperrors.Unavailable
	case statusCode == http.StatusBadRequest:
		return apperrors.InvalidInput
	case statusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized
	case statusCode == http.StatusForbidden:
		return apperrors.Forbidden
	case statusCode == http.StatusNotFound:
		return apperrors.NotFound
	default:
		return apperrors.ExecutionFailed
	}
}
