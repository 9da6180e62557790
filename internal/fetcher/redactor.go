package fetcher

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
)

var (
	// sensitiveExactKeys 전체 문자열이 정확히 일치해야 마스킹되는 쿼리 파라미터 키워드 목록입니다.
	//
	// "key", "token" 같은 일반적인 단어를 부분 일치로 검사하면 "monkey", "broken" 같은
	// 무해한 단어까지 마스킹되는 오탐이 발생할 수 있으므로, 대소문자 구분 없이 전체 문자열이
	// 일치할 때만 민감한 정보로 처리합니다.
	sensitiveExactKeys = []string{
		"token", "auth", "key", "secret", "pass", "credential", "signature", "password", "passwd",
		"access_token", "api_key", "client_secret", "refresh_token", "id_token",
		"access_key", "secret_key", "private_key", "public_key",
		"client_id", "client_key", "app_key", "auth_key",
	}

	// sensitiveSuffixes 특정 접미사로 끝나면 마스킹되는 쿼리 파라미터 키워드 목록입니다.
	sensitiveSuffixes = []string{
		"_token", "_secret", "_cred", "_sig", "_password", "_passwd",
	}

	// sensitiveHeaders 마스킹 대상 HTTP 헤더 목록입니다.
	sensitiveHeaders = []string{"Authorization", "Proxy-Authorization", "Cookie", "Set-Cookie"}
)

// redactURL URL에서 민감한 정보(비밀번호, API 키, 토큰 등)를 마스킹하여 안전한 문자열로 반환합니다.
// URL의 구조는 유지하면서 민감한 값만 "***"로 대체합니다.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	masked := *u

	// UserInfo(비밀번호 포함 가능) 마스킹
	if masked.User != nil {
		username := masked.User.Username()
		if _, hasPassword := masked.User.Password(); hasPassword {
			masked.User = url.UserPassword(username, "***")
		}
	}

	// 민감한 쿼리 파라미터 마스킹
	query := masked.Query()
	changed := false
	for key := range query {
		if isSensitiveQueryKey(key) {
			query.Set(key, "***")
			changed = true
		}
	}
	if changed {
		masked.RawQuery = query.Encode()
	}

	return masked.String()
}

// redactHeaders HTTP 헤더에서 민감한 정보를 마스킹한 안전한 복사본을 반환합니다.
// 원본 헤더는 변경하지 않습니다.
func redactHeaders(h http.Header) http.Header {
	if h == nil {
		return nil
	}

	masked := h.Clone()
	for _, key := range sensitiveHeaders {
		if masked.Get(key) != "" {
			masked.Set(key, "***")
		}
	}

	return masked
}

// isSensitiveQueryKey 쿼리 파라미터 키가 민감한 정보를 담는 키인지 판단합니다.
func isSensitiveQueryKey(key string) bool {
	lower := strings.ToLower(key)

	if slices.Contains(sensitiveExactKeys, lower) {
		return true
	}

	for _, suffix := range sensitiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}

	return false
}
