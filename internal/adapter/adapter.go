// Package adapter holds helpers shared by the outbound adapters.
package adapter

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

var ErrInvalidCA = errors.New("failed to parse CA certificate")

// MakeTLSConfig builds a mutual TLS config from PEM files.
func MakeTLSConfig(fsys afero.Fs, ca, cert, key string) (*tls.Config, error) {
	const op = "adapter.MakeTLSConfig"

	caCert, err := afero.ReadFile(fsys, ca)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read CA certificate file: %w", op, err)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCA)
	}

	certPEM, err := afero.ReadFile(fsys, cert)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	keyPEM, err := afero.ReadFile(fsys, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	clientCert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &tls.Config{
		RootCAs:      caCertPool,
		Certificates: []tls.Certificate{clientCert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
