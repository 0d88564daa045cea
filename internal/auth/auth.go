// internal/auth/auth.go
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenConfig holds the signing configuration for pairing tokens.
type TokenConfig struct {
	Secret []byte
	// Expiration of zero issues tokens that never expire.
	Expiration time.Duration
}

// Token is the decoded form of a pairing token.
type Token struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// GenerateToken signs a fresh token for role.
func GenerateToken(role string, config *TokenConfig, now time.Time) (string, *Token, error) {
	if len(config.Secret) == 0 {
		return "", nil, fmt.Errorf("secret key is required")
	}
	if strings.Contains(role, "|") {
		return "", nil, fmt.Errorf("invalid role %q", role)
	}

	token := &Token{
		ID:       uuid.NewString(),
		Role:     role,
		IssuedAt: now.Unix(),
	}
	if config.Expiration > 0 {
		token.ExpiresAt = now.Add(config.Expiration).Unix()
	}

	payload := fmt.Sprintf("%s|%s|%d|%d", token.ID, token.Role, token.IssuedAt, token.ExpiresAt)
	encodedPayload := base64.RawURLEncoding.EncodeToString([]byte(payload))
	encodedSignature := base64.RawURLEncoding.EncodeToString(sign(config.Secret, []byte(payload)))

	return encodedPayload + "." + encodedSignature, token, nil
}

// ParseToken verifies the signature and expiry of tokenString.
func ParseToken(tokenString string, config *TokenConfig, now time.Time) (*Token, error) {
	if len(config.Secret) == 0 {
		return nil, fmt.Errorf("secret key is required")
	}

	parts := strings.Split(tokenString, ".")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid token format")
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid token payload: %w", err)
	}
	signatureBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid token signature: %w", err)
	}
	if !hmac.Equal(signatureBytes, sign(config.Secret, payloadBytes)) {
		return nil, fmt.Errorf("invalid token signature")
	}

	payloadParts := strings.Split(string(payloadBytes), "|")
	if len(payloadParts) != 4 {
		return nil, fmt.Errorf("invalid payload format")
	}

	token := &Token{
		ID:        payloadParts[0],
		Role:      payloadParts[1],
		IssuedAt:  parseTimestamp(payloadParts[2]),
		ExpiresAt: parseTimestamp(payloadParts[3]),
	}
	if token.ExpiresAt > 0 && now.Unix() > token.ExpiresAt {
		return nil, fmt.Errorf("token has expired")
	}
	return token, nil
}

func sign(secret, payload []byte) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write(payload)
	return h.Sum(nil)
}

// parseTimestamp converts string timestamp to int64
func parseTimestamp(timestampStr string) int64 {
	var timestamp int64
	fmt.Sscanf(timestampStr, "%d", &timestamp)
	return timestamp
}

// GenerateSecureKey generates a random signing key.
func GenerateSecureKey(length int) ([]byte, error) {
	if length <= 0 {
		length = 32
	}

	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
