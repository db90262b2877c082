package tlsutil_test

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonerisk/phonerisk/pkg/tlsutil"
)

func readCert(t *testing.T, path string) *x509.Certificate {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	block, _ := pem.Decode(raw)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	return cert
}

func TestGenerateDevCertificates(t *testing.T) {
	dir := t.TempDir()

	paths, err := tlsutil.GenerateDevCertificates([]string{"phonerisk.local", "10.0.0.7"}, dir, 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "server.pem"), paths.ServerCert)

	ca := readCert(t, paths.CACert)
	server := readCert(t, paths.ServerCert)
	assert.True(t, ca.IsCA)
	assert.Equal(t, []string{"phonerisk.local"}, server.DNSNames)
	require.Len(t, server.IPAddresses, 1)
	assert.Equal(t, "10.0.0.7", server.IPAddresses[0].String())

	roots := x509.NewCertPool()
	roots.AddCert(ca)
	_, err = server.Verify(x509.VerifyOptions{DNSName: "phonerisk.local", Roots: roots})
	assert.NoError(t, err)

	info, err := os.Stat(paths.ServerKey)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	creds, err := tlsutil.ServerCredentials(paths.ServerCert, paths.ServerKey)
	require.NoError(t, err)
	assert.Equal(t, "tls", creds.Info().SecurityProtocol)

	_, err = tlsutil.ClientCredentials(paths.CACert, "phonerisk.local")
	assert.NoError(t, err)
}

func TestGenerateDevCertificates_DefaultHosts(t *testing.T) {
	paths, err := tlsutil.GenerateDevCertificates(nil, t.TempDir(), 0)
	require.NoError(t, err)

	server := readCert(t, paths.ServerCert)
	assert.Equal(t, []string{"localhost"}, server.DNSNames)
	assert.WithinDuration(t, time.Now().Add(365*24*time.Hour), server.NotAfter, time.Hour)
}

func TestGenerateDevCertificates_RequiresDir(t *testing.T) {
	_, err := tlsutil.GenerateDevCertificates(nil, "", time.Hour)
	assert.ErrorContains(t, err, "output directory is required")
}

func TestCredentials_Errors(t *testing.T) {
	_, err := tlsutil.ServerCredentials("missing.pem", "missing-key.pem")
	assert.ErrorContains(t, err, "load server key pair")

	bad := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(bad, []byte("not a cert"), 0o600))
	_, err = tlsutil.ClientCredentials(bad, "")
	assert.ErrorContains(t, err, "no certificate found")
}
