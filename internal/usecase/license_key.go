package usecase

import (
	"crypto/rand"
	"io"
	"strings"
)

// generateLicenseKey creates a secure, random, human-typable license key.
// Format: XXXXX-XXXXX-XXXXX-XXXXX
func generateLicenseKey() (string, error) {
	// A character set that avoids ambiguous characters like O/0, I/1, l.
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const segments = 4
	const segmentLength = 5

	buffer := make([]byte, segments*segmentLength)
	if _, err := io.ReadFull(rand.Reader, buffer); err != nil {
		return "", err
	}
	for i := range buffer {
		buffer[i] = chars[int(buffer[i])%len(chars)]
	}

	parts := make([]string, 0, segments)
	for i := 0; i < segments; i++ {
		parts = append(parts, string(buffer[i*segmentLength:(i+1)*segmentLength]))
	}
	return strings.Join(parts, "-"), nil
}

// digitFromByte maps b to a decimal digit. Bytes at or above 250, the largest
// multiple of 10 that fits, are rejected so every digit is equally likely.
func digitFromByte(b byte) (byte, bool) {
	if b >= 250 {
		return 0, false
	}
	return '0' + b%10, true
}

// generateOTPDigits returns a numeric code of n digits from a crypto-strong source.
func generateOTPDigits(n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, 1)
	for len(out) < n {
		if _, err := io.ReadFull(rand.Reader, buf); err != nil {
			return "", err
		}
		if d, ok := digitFromByte(buf[0]); ok {
			out = append(out, d)
		}
	}
	return string(out), nil
}
