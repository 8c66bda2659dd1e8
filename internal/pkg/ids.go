package pkg

import "github.com/google/uuid"

// GenerateGameID - generates a short id players can share to join a game.
func GenerateGameID() string {
	return uuid.NewString()[:8]
}

// GenerateNewSessionID - generates a new unique sessionID.
func GenerateNewSessionID() string {
	return uuid.NewString()
}
