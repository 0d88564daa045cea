package auth

import (
	"strings"
	"sync"
	"time"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/services"
	"github.com/Noty-chan/aether-journal/internal/utils"
)

// PairingManager hands out role tokens against a shared PIN. Setting a new
// PIN rotates the signing key, which invalidates every earlier token.
type PairingManager struct {
	mu     sync.RWMutex
	pin    string
	config TokenConfig
	tokens map[string]services.Role // token id -> role
	now    func() time.Time
	logger *utils.Logger
}

// NewPairingManager returns a manager without a PIN; players cannot pair
// until the host sets one.
func NewPairingManager() *PairingManager {
	return &PairingManager{
		tokens: map[string]services.Role{},
		now:    time.Now,
		logger: utils.GetLogger(),
	}
}

// HasPin reports whether a PIN has been set.
func (m *PairingManager) HasPin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pin != ""
}

// Preset stores pin without issuing a host token. Used at boot.
func (m *PairingManager) Preset(pin string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetLocked(pin)
}

// SetPin replaces the PIN, drops all tokens and returns a new host token.
func (m *PairingManager) SetPin(pin string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.resetLocked(pin); err != nil {
		return "", err
	}
	m.logger.Info("Pairing PIN set, previous tokens revoked", nil)
	return m.issueLocked(services.RoleHost)
}

func (m *PairingManager) resetLocked(pin string) error {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return apperrors.NewValidationError("PIN is required", nil)
	}
	secret, err := GenerateSecureKey(32)
	if err != nil {
		return apperrors.NewProcessingError("failed to generate signing key", err)
	}
	m.pin = pin
	m.config = TokenConfig{Secret: secret}
	m.tokens = map[string]services.Role{}
	return nil
}

// PairPlayer returns a player token when pin matches.
func (m *PairingManager) PairPlayer(pin string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pin == "" || strings.TrimSpace(pin) != m.pin {
		return "", apperrors.NewPermissionError("PIN mismatch")
	}
	return m.issueLocked(services.RolePlayer)
}

func (m *PairingManager) issueLocked(role services.Role) (string, error) {
	raw, token, err := GenerateToken(string(role), &m.config, m.now())
	if err != nil {
		return "", apperrors.NewProcessingError("failed to issue token", err)
	}
	m.tokens[token.ID] = role
	return raw, nil
}

// GetRole resolves a token to its role. Unknown, forged or revoked tokens
// report false.
func (m *PairingManager) GetRole(raw string) (services.Role, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.config.Secret) == 0 || raw == "" {
		return "", false
	}
	token, err := ParseToken(raw, &m.config, m.now())
	if err != nil {
		return "", false
	}
	role, ok := m.tokens[token.ID]
	if !ok || string(role) != token.Role {
		return "", false
	}
	return role, true
}
