package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	apperrors "github.com/giftdeum/gift-server/internal/pkg/errors"
	applog "github.com/giftdeum/gift-server/pkg/log"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html/charset"
)

// FetchJSON 지정된 URL로 HTTP 요청을 보내 JSON 응답을 가져오고, 지정된 구조체(v)로 디코딩합니다.
func (s *scraper) FetchJSON(ctx context.Context, method, urlStr string, body io.Reader, header http.Header, v any) error {
	if err := validateDecodeTarget(v); err != nil {
		return err
	}

	if header == nil {
		header = http.Header{}
	}
	if body != nil && header.Get("Content-Type") == "" {
		header = header.Clone()
		header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, data, truncated, err := s.fetch(ctx, method, urlStr, body, header, "application/json")
	if err != nil {
		return err
	}
	if truncated {
		return newErrResponseTooLarge(urlStr, s.maxResponseBodySize)
	}

	// 204 No Content 응답은 본문이 없으므로 디코딩을 생략한다.
	if resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil
	}

	contentType := resp.Header.Get("Content-Type")
	if isHTMLContentType(contentType) {
		return newErrUnexpectedHTMLResponse(urlStr, contentType)
	}
	if !isJSONContentType(contentType) {
		applog.WithComponent(component).WithContext(ctx).
			WithField("url", urlStr).
			WithField("content_type", contentType).
			Warn("JSON이 아닌 Content-Type의 응답을 JSON으로 디코딩합니다.")
	}

	// 비 UTF-8 인코딩 응답은 UTF-8로 변환한 뒤 디코딩한다.
	utf8Reader, err := charset.NewReader(bytes.NewReader(data), contentType)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ExecutionFailed, "응답 본문의 문자 인코딩 변환이 실패하였습니다.(URL:%s)", urlStr)
	}

	decoded, err := io.ReadAll(utf8Reader)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ExecutionFailed, "응답 본문을 읽을 수 없습니다.(URL:%s)", urlStr)
	}

	if err := json.Unmarshal(decoded, v); err != nil {
		// JSON 구조가 예상과 다를 때, 본문에 API 에러 정보가 들어있는지 확인하여
		// 디코딩 실패보다 더 유의미한 에러 메시지를 만들어낸다.
		if apiErr := probeAPIError(urlStr, decoded); apiErr != nil {
			return apiErr
		}
		return apperrors.Wrapf(err, apperrors.ExecutionFailed, "JSON 응답의 디코딩이 실패하였습니다.(URL:%s)", urlStr)
	}

	return nil
}

// validateDecodeTarget 디코딩 대상(v)이 nil이 아닌 포인터인지 검증합니다.
func validateDecodeTarget(v any) error {
	if v == nil {
		return apperrors.New(apperrors.Internal, "JSON 디코딩 대상이 nil입니다.")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return apperrors.Newf(apperrors.Internal, "JSON 디코딩 대상은 nil이 아닌 포인터이어야 합니다.(타입:%T)", v)
	}
	return nil
}

// probeAPIError 디코딩에 실패한 JSON 본문에서 API 서버가 내려준 에러 정보를 찾아냅니다.
// 네이버 오픈API의 에러 본문({"errorMessage":..., "errorCode":...}) 형식을 우선 확인합니다.
func probeAPIError(urlStr string, body []byte) error {
	if !gjson.ValidBytes(body) {
		return nil
	}

	errorMessage := gjson.GetBytes(body, "errorMessage")
	errorCode := gjson.GetBytes(body, "errorCode")
	if errorMessage.Exists() && errorCode.Exists() {
		return apperrors.Newf(apperrors.ExecutionFailed, "API 서버가 에러를 반환하였습니다.(URL:%s, 코드:%s, 메시지:%s)", urlStr, errorCode.String(), errorMessage.String())
	}

	if message := gjson.GetBytes(body, "message"); message.Exists() {
		return apperrors.Newf(apperrors.ExecutionFailed, "API 서버가 에러를 반환하였습니다.(URL:%s, 메시지:%s)", urlStr, message.String())
	}

	return nil
}

// isJSONContentType Content-Type이 JSON 계열인지 확인합니다.
func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// isHTMLContentType Content-Type이 HTML 계열인지 확인합니다.
func isHTMLContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
