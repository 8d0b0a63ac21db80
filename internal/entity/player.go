package entity

import (
	"errors"
	"strings"
)

const maxPlayerNameLength = 20

var ErrInvalidPlayerName = errors.New("player name must be 1-20 characters")

// Player is one seat occupant. The connection ID is an opaque handle
// assigned by the transport layer and is never serialized to peers.
type Player struct {
	Name         string `json:"name"`
	ConnectionID string `json:"-"`
	Connected    bool   `json:"connected"`
}

// NewPlayer validates and trims the display name before seating a player.
func NewPlayer(name, connectionID string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxPlayerNameLength {
		return nil, ErrInvalidPlayerName
	}

	return &Player{
		Name:         name,
		ConnectionID: connectionID,
		Connected:    true,
	}, nil
}
