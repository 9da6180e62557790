package scraper

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	"golang.org/x/net/html/charset"
)

// FetchHTMLDocument 지정된 URL로 GET 요청을 보내 HTML 문서를 가져오고, 파싱된 goquery.Document를 반환합니다.
func (s *scraper) FetchHTMLDocument(ctx context.Context, urlStr string, header http.Header) (*goquery.Document, error) {
	resp, data, truncated, err := s.fetch(ctx, http.MethodGet, urlStr, nil, header, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	if truncated {
		return nil, newErrResponseTooLarge(urlStr, s.maxResponseBodySize)
	}

	doc, err := s.ParseReader(bytes.NewReader(data), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ExecutionFailed, "HTML 문서의 파싱이 실패하였습니다.(URL:%s)", urlStr)
	}

	return doc, nil
}

// ParseReader io.Reader로부터 HTML 문서를 파싱합니다.
// contentType에 명시된 문자 인코딩(EUC-KR 등)을 UTF-8로 변환한 뒤 파싱합니다.
func (s *scraper) ParseReader(r io.Reader, contentType string) (*goquery.Document, error) {
	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "HTML 문서의 문자 인코딩 변환이 실패하였습니다.")
	}

	return goquery.NewDocumentFromReader(utf8Reader)
}
