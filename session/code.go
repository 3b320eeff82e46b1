package session

import (
	"crypto/rand"
	"strings"
)

// CodeAlphabet omits 0, O, 1 and I so codes survive being read aloud.
const CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DefaultCodeLength is the length of generated session codes.
const DefaultCodeLength = 6

// CodeGenerator produces a candidate session code of the given length.
type CodeGenerator func(length int) string

// RandomCode draws length characters from CodeAlphabet using crypto/rand.
// The alphabet has 32 symbols, so masking a byte to 5 bits is unbiased.
func RandomCode(length int) string {
	buf := make([]byte, length)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = CodeAlphabet[b&31]
	}
	return string(buf)
}

// NormalizeID trims whitespace and uppercases a user-supplied code.
func NormalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
