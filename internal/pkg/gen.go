package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// roomCodeAlphabet drops 0/O and 1/I so codes stay unambiguous when read
// aloud or typed from a screenshot.
const (
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 6
)

// GenerateRoomCode - generates a short human-typeable room code.
func GenerateRoomCode() (string, error) {
	out := make([]byte, roomCodeLength)

	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}

		out[i] = roomCodeAlphabet[n.Int64()]
	}

	return string(out), nil
}

// GenerateConnectionID - generates a unique identifier for one live
// connection. It carries no identity beyond the connection's lifetime.
func GenerateConnectionID() string {
	return uuid.NewString()
}
