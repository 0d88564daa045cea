package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/services"
)

func TestTokenSignatureAndExpiry(t *testing.T) {
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	cfg := &TokenConfig{Secret: []byte("secret"), Expiration: time.Hour}

	raw, issued, err := GenerateToken("host", cfg, now)
	require.NoError(t, err)

	parsed, err := ParseToken(raw, cfg, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, issued, parsed)

	_, err = ParseToken(raw, cfg, now.Add(2*time.Hour))
	assert.EqualError(t, err, "token has expired")

	_, err = ParseToken(raw, &TokenConfig{Secret: []byte("other")}, now)
	assert.EqualError(t, err, "invalid token signature")

	_, err = ParseToken("no-dot", cfg, now)
	assert.Error(t, err)

	_, _, err = GenerateToken("host", &TokenConfig{}, now)
	assert.Error(t, err)
}

func TestPairingFlow(t *testing.T) {
	m := NewPairingManager()
	assert.False(t, m.HasPin())

	_, err := m.PairPlayer("1234")
	assert.True(t, apperrors.IsPermissionError(err), "pairing without a PIN fails")

	host, err := m.SetPin("1234")
	require.NoError(t, err)
	role, ok := m.GetRole(host)
	require.True(t, ok)
	assert.Equal(t, services.RoleHost, role)

	_, err = m.PairPlayer("0000")
	require.Error(t, err)
	assert.Equal(t, "PIN mismatch", err.Error())

	player, err := m.PairPlayer("1234")
	require.NoError(t, err)
	role, ok = m.GetRole(player)
	require.True(t, ok)
	assert.Equal(t, services.RolePlayer, role)

	_, ok = m.GetRole("")
	assert.False(t, ok)
	_, ok = m.GetRole(player + "x")
	assert.False(t, ok)
}

func TestSetPinRevokesTokens(t *testing.T) {
	m := NewPairingManager()
	host, err := m.SetPin("1234")
	require.NoError(t, err)
	player, err := m.PairPlayer("1234")
	require.NoError(t, err)

	newHost, err := m.SetPin("5678")
	require.NoError(t, err)

	_, ok := m.GetRole(host)
	assert.False(t, ok)
	_, ok = m.GetRole(player)
	assert.False(t, ok)
	_, ok = m.GetRole(newHost)
	assert.True(t, ok)

	_, err = m.PairPlayer("1234")
	assert.Error(t, err)
}

func TestPresetPin(t *testing.T) {
	m := NewPairingManager()
	assert.True(t, apperrors.IsValidationError(m.Preset("  ")))
	require.NoError(t, m.Preset(" 42 "))
	assert.True(t, m.HasPin())

	token, err := m.PairPlayer("42")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(token, "."))
}
