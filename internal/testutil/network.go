// Package testutil 네트워크 서버 테스트에 필요한 보조 기능을 제공합니다.
package testutil

import (
	"net"
	"strconv"
	"testing"
	"time"
)

// FreePort 현재 사용 가능한 로컬 TCP 포트 번호를 반환합니다.
// 포트를 확보할 수 없으면 테스트를 즉시 실패시킵니다.
func FreePort(t testing.TB) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("사용 가능한 포트를 확보할 수 없습니다: %v", err)
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

// WaitListening 해당 포트에서 서버가 연결을 수락할 때까지 대기합니다.
// 제한 시간 내에 서버가 기동되지 않으면 테스트를 즉시 실패시킵니다.
func WaitListening(t testing.TB, port int, timeout time.Duration) {
	t.Helper()

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("tcp", addr)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("%v 내에 %s에서 서버가 기동되지 않았습니다", timeout, addr)
}
