package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
	"strings"
)

// Room codes are 6 uppercase alphanumeric characters, short enough to
// share over voice chat.
const (
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	RoomCodeLength   = 6
)

// GenerateRoomCode - generates a random room code.
func GenerateRoomCode() string {
	var builder strings.Builder

	for i := 0; i < RoomCodeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			return ""
		}
		builder.WriteByte(roomCodeAlphabet[n.Int64()])
	}

	return builder.String()
}

// NormalizeRoomCode - uppercases and trims a client-supplied room code.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidRoomCode - reports whether a normalized code has the expected shape.
func IsValidRoomCode(code string) bool {
	if len(code) != RoomCodeLength {
		return false
	}

	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(roomCodeAlphabet, rune(code[i])) {
			return false
		}
	}

	return true
}

// GenerateNewSessionID - generates a new unique sessionID.
func GenerateNewSessionID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "error-generating-session-id"
	}

	return base64.RawURLEncoding.EncodeToString(b)
}
