package utils

import (
	"crypto/rand"
	"strings"
)

// ShareCodeAlphabet excludes visually ambiguous symbols (0/O, 1/I) so codes
// survive being read aloud or typed from a screenshot.
const ShareCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const ShareCodeLength = 6

// GenerateShareCode returns a 6-character code drawn uniformly from the
// 32-symbol alphabet (32^6 ≈ 1.07e9 combinations). 256 is a multiple of 32,
// so the byte modulo stays uniform.
func GenerateShareCode() string {
	buf := make([]byte, ShareCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = ShareCodeAlphabet[int(b)%len(ShareCodeAlphabet)]
	}
	return string(buf)
}

// NormalizeShareCode uppercases and trims an inbound code so lookups are
// case-insensitive (share URLs get lowercased by chat apps all the time).
func NormalizeShareCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
