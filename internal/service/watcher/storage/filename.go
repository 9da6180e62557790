package storage

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// filenameReplacer 파일명에 포함되면 파일 시스템 오류나 경로 이탈을 유발할 수 있는
// 특수문자를 안전한 문자로 치환합니다.
var filenameReplacer = strings.NewReplacer(
	"..", "--",
	"/", "-",
	"\\", "-",
	"|", "-",
	"<", "-",
	">", "-",
	":", "-",
	"\"", "-",
	"?", "-",
	"*", "-",
)

// generateFilename 감시 작업 ID로부터 안전하고 고유한 스냅샷 파일명을 생성합니다.
//
// 사람이 읽기 쉽도록 ID를 Kebab-Case로 정제한 이름을 사용하고, 정제 과정에서
// 서로 다른 ID가 같은 이름이 되는 충돌을 막기 위해 원본 ID의 64비트 해시를
// 덧붙입니다.
//
// 생성 패턴: "watch-{정제된ID}-{16자리해시}.json"
func generateFilename(watchID string) string {
	name := sanitizeName(watchID)
	name = truncateByBytes(name, 50)

	hasher := fnv.New64a()
	_, _ = fmt.Fprintf(hasher, "%d:%s", len(watchID), watchID)

	return fmt.Sprintf("watch-%s-%016x.json", name, hasher.Sum64())
}

// sanitizeName 파일명으로 안전하게 사용할 수 있도록 문자열을 정제합니다.
func sanitizeName(s string) string {
	kebab := strcase.ToKebab(s)

	// Kebab 변환 후에도 남아있을 수 있는 제어 문자를 치환한다.
	kebab = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return '-'
		}
		return r
	}, kebab)

	return filenameReplacer.Replace(kebab)
}

// truncateByBytes 문자열을 UTF-8 문자 경계를 존중하여 최대 limit 바이트로 자릅니다.
func truncateByBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	var totalBytes int
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])

		if totalBytes+size > limit {
			return s[:totalBytes]
		}

		totalBytes += size
		i += size
	}

	return s[:totalBytes]
}
