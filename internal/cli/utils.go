// Package cli provides shared helpers for the certext command line tool.
package cli

import (
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
)

// LoadCertFromPath loads a certificate from a PEM file.
func LoadCertFromPath(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return cert, nil
}

// IsPEM reports whether data looks like a PEM file.
func IsPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

// ReadBinaryFile reads a file holding binary data either raw or as hex
// text (whitespace ignored), and returns the raw bytes.
func ReadBinaryFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return DecodeBinary(data)
}

// DecodeBinary returns data unchanged when it is raw binary, or decodes it
// when it is hex text.
func DecodeBinary(data []byte) ([]byte, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed != "" && isHex(trimmed) {
		raw, err := hex.DecodeString(compactHex(trimmed))
		if err != nil {
			return nil, fmt.Errorf("failed to decode hex input: %w", err)
		}
		return raw, nil
	}
	return data, nil
}

func isHex(s string) bool {
	n := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
			n++
		case r == ' ' || r == '\n' || r == '\t' || r == '\r' || r == ':':
		default:
			return false
		}
	}
	return n > 0 && n%2 == 0
}

func compactHex(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\t', '\r', ':':
			return -1
		}
		return r
	}, s)
}
