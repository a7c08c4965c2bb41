package adapter_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/storefront/internal/adapter"
)

func writeSelfSigned(t *testing.T, fsys afero.Fs) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "storefront"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)
	keyDER, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
	require.NoError(t, afero.WriteFile(fsys, "/tls/ca.pem", certPEM, 0o600))
	require.NoError(t, afero.WriteFile(fsys, "/tls/cert.pem", certPEM, 0o600))
	require.NoError(t, afero.WriteFile(fsys, "/tls/key.pem", keyPEM, 0o600))
}

func TestMakeTLSConfig(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeSelfSigned(t, fsys)

	t.Run("Valid", func(t *testing.T) {
		cfg, err := adapter.MakeTLSConfig(fsys, "/tls/ca.pem", "/tls/cert.pem", "/tls/key.pem")
		require.NoError(t, err)
		assert.Len(t, cfg.Certificates, 1)
		assert.NotNil(t, cfg.RootCAs)
	})

	t.Run("MissingCA", func(t *testing.T) {
		_, err := adapter.MakeTLSConfig(fsys, "/tls/none.pem", "/tls/cert.pem", "/tls/key.pem")
		require.Error(t, err)
	})

	t.Run("InvalidCA", func(t *testing.T) {
		_, err := adapter.MakeTLSConfig(fsys, "/tls/key.pem", "/tls/cert.pem", "/tls/key.pem")
		require.ErrorIs(t, err, adapter.ErrInvalidCA)
	})

	t.Run("MismatchedPair", func(t *testing.T) {
		_, err := adapter.MakeTLSConfig(fsys, "/tls/ca.pem", "/tls/cert.pem", "/tls/cert.pem")
		require.Error(t, err)
	})
}
