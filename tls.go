/*
# Module: tls.go
Certificate handling for HTTPS mode.

## Linked Modules
- [main](./main.go) - Server startup

## Tags
tls, security

## Exports
ensureCertificate, generateSelfSignedCert

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "tls.go" ;
    code:description "Certificate handling for HTTPS mode" ;
    code:linksTo [
        code:name "main" ;
        code:path "./main.go" ;
        code:relationship "Server startup"
    ] ;
    code:exports :ensureCertificate, :generateSelfSignedCert ;
    code:tags "tls", "security" .
<!-- End LinkedDoc RDF -->
*/
package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
)

const (
	selfSignedCertFile = "server.crt"
	selfSignedKeyFile  = "server.key"
	selfSignedValidity = 365 * 24 * time.Hour
)

// ensureCertificate returns the configured certificate pair, or generates a
// self-signed localhost pair when none is configured.
func ensureCertificate(certFile, keyFile string, logger *zap.Logger) (string, string, error) {
	if certFile != "" && keyFile != "" {
		return certFile, keyFile, nil
	}

	logger.Info("📜 No certificates provided, generating self-signed certificate")
	if err := generateSelfSignedCert(selfSignedCertFile, selfSignedKeyFile, time.Now()); err != nil {
		return "", "", fmt.Errorf("failed to generate certificate: %w", err)
	}
	return selfSignedCertFile, selfSignedKeyFile, nil
}

// generateSelfSignedCert writes a PEM certificate and key for local testing
func generateSelfSignedCert(certFile, keyFile string, now time.Time) error {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return err
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return err
	}

	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"Sky Guide"},
			CommonName:   "localhost",
		},
		NotBefore:             now,
		NotAfter:              now.Add(selfSignedValidity),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return err
	}
	if err := writePEM(certFile, "CERTIFICATE", der, 0o644); err != nil {
		return err
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return err
	}
	return writePEM(keyFile, "EC PRIVATE KEY", keyDER, 0o600)
}

func writePEM(path, blockType string, der []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if err := pem.Encode(f, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
