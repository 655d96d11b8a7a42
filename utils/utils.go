package utils

import (
	rndm "math/rand"

	"github.com/google/uuid"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")
var codeRunes = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateID creates a short random entity ID of length n.
func GenerateID(n int) string {
	return GenerateRandomString(n)
}

// GenerateInviteCode creates a team invite code. The alphabet drops the
// easily confused characters (0/O, 1/I).
func GenerateInviteCode(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = codeRunes[rndm.Intn(len(codeRunes))]
	}
	return string(b)
}

func GetUUID() string {
	return uuid.New().String()
}
