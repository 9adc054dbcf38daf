package uid

import "github.com/google/uuid"

// NewGameID returns an opaque unique identifier for a game.
func NewGameID() string {
	return uuid.NewString()
}

// NewSessionID returns an identifier for an auth session.
func NewSessionID() string {
	return uuid.NewString()
}
