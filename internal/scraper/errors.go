package scraper

import (
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
)

// newErrUnexpectedHTMLResponse JSON 응답을 기대한 요청에 HTML 페이지가 반환되었을 때의 에러를 생성합니다.
// 주로 인증 만료, 점검 페이지, 차단 페이지로 리다이렉트된 경우에 발생합니다.
func newErrUnexpectedHTMLResponse(urlStr, contentType string) error {
	return apperrors.Newf(apperrors.ExecutionFailed, "JSON 응답을 기대하였으나 HTML 페이지가 반환되었습니다.(URL:%s, Content-Type:%s)", urlStr, contentType)
}

// newErrResponseTooLarge HTTP 응답 본문이 최대 허용 크기를 초과하였을 때의 에러를 생성합니다.
func newErrResponseTooLarge(urlStr string, limit int64) error {
	return apperrors.Newf(apperrors.ExecutionFailed, "HTTP 응답 본문이 최대 허용 크기(%d바이트)를 초과하였습니다.(URL:%s)", limit, urlStr)
}
