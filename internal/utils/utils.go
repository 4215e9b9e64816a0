package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenToken returns a random token of n bytes, hex encoded.
func GenToken(n int) string {
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	if err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
