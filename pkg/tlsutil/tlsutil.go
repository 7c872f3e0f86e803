// Package tlsutil builds transport credentials for the finance gRPC API.
package tlsutil

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"google.golang.org/grpc/credentials"
)

// ServerFiles names the PEM files the server credentials are loaded from.
// ClientCAFile is optional; when set, callers must present a certificate
// signed by one of its CAs.
type ServerFiles struct {
	CertFile     string
	KeyFile      string
	ClientCAFile string
}

// Enabled reports whether a server certificate is configured.
func (f ServerFiles) Enabled() bool {
	return f.CertFile != "" && f.KeyFile != ""
}

// ServerCredentials loads the key pair and, if configured, the client CA
// bundle. TLS 1.2 is the minimum accepted version.
func ServerCredentials(files ServerFiles) (credentials.TransportCredentials, error) {
	cert, err := tls.LoadX509KeyPair(files.CertFile, files.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: load server key pair: %w", err)
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	if files.ClientCAFile != "" {
		pool, err := loadCertPool(files.ClientCAFile)
		if err != nil {
			return nil, err
		}
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return credentials.NewTLS(cfg), nil
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: read client ca: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, errors.New("tlsutil: client ca contains no certificates")
	}
	return pool, nil
}
