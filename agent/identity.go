package agent

import (
	"crypto/rand"
	"strings"
)

const (
	idAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	idRandomLength = 9
	idPrefix       = "user_"
	namePrefix     = "User-"
)

// Identity is how an agent presents itself in a session.
type Identity struct {
	ParticipantID string
	DisplayName   string
}

// NewIdentity returns a random participant id of the form user_xxxxxxxxx and
// a default display name built from its first four random characters.
func NewIdentity() Identity {
	suffix := randomBase36(idRandomLength)
	return Identity{
		ParticipantID: idPrefix + suffix,
		DisplayName:   namePrefix + suffix[:4],
	}
}

func randomBase36(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	var b strings.Builder
	b.Grow(n)
	for _, c := range buf {
		b.WriteByte(idAlphabet[int(c)%len(idAlphabet)])
	}
	return b.String()
}
