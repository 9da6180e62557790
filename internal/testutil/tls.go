package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// SelfSignedCert 테스트용 자체 서명 인증서와 개인 키를 PEM 파일로 생성하고
// 각 파일의 경로를 반환합니다.
//
// 인증서는 127.0.0.1과 localhost에 대해서만 유효하며, 파일은 테스트 종료 시
// 임시 디렉터리와 함께 자동으로 정리됩니다.
func SelfSignedCert(t testing.TB) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("개인 키 생성에 실패하였습니다: %v", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: "gift-server test"},
		NotBefore:    time.Now().Add(-time.Minute),
		NotAfter:     time.Now().Add(time.Hour),

		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,

		IPAddresses: []net.IP{net.ParseIP("127.0.0.1")},
		DNSNames:    []string{"localhost"},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("인증서 생성에 실패하였습니다: %v", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("개인 키 직렬화에 실패하였습니다: %v", err)
	}

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")

	writePEM(t, certFile, &pem.Block{Type: "CERTIFICATE", Bytes: der})
	writePEM(t, keyFile, &pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	return certFile, keyFile
}

// writePEM PEM 블록을 파일로 기록합니다.
func writePEM(t testing.TB, path string, block *pem.Block) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("%s 파일 생성에 실패하였습니다: %v", filepath.Base(path), err)
	}
	defer f.Close()

	if err := pem.Encode(f, block); err != nil {
		t.Fatalf("%s PEM 기록에 실패하였습니다: %v", filepath.Base(path), err)
	}
}
