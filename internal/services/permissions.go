package services

import (
	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
)

// Role is the actor role of a paired client.
type Role string

const (
	RoleHost   Role = "host"
	RolePlayer Role = "player"
)

func (r Role) Valid() bool { return r == RoleHost || r == RolePlayer }

// EnsureHost rejects anything but the host role.
func EnsureHost(role Role) error {
	if role != RoleHost {
		return apperrors.NewPermissionError("Host role required")
	}
	return nil
}

// EnsurePlayer rejects anything but the player role.
func EnsurePlayer(role Role) error {
	if role != RolePlayer {
		return apperrors.NewPermissionError("Player role required")
	}
	return nil
}

// EnsurePlayerCanAct rejects player actions on a frozen character.
func EnsurePlayerCanAct(character *models.Character) error {
	if character.Frozen {
		return apperrors.NewPermissionError("Player actions are frozen")
	}
	return nil
}

// ensureActingPlayer combines the role and frozen checks every player
// intent needs.
func ensureActingPlayer(role Role, character *models.Character) error {
	if err := EnsurePlayer(role); err != nil {
		return err
	}
	return EnsurePlayerCanAct(character)
}
