package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// NewSessionID generates a cryptographically random 32-character hex token
// used as an ad-session identifier.
func NewSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewVerificationCode generates an 8-character uppercase hex code.
// Codes are matched case-insensitively; uppercase is the canonical form.
func NewVerificationCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}
