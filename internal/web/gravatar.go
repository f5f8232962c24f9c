package web

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// Gravatar returns the avatar URL for email, falling back to a generated
// robot image when the address has no gravatar.
func Gravatar(email string, size int) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = "default"
	}
	sum := md5.Sum([]byte(email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&d=robohash&r=g", hex.EncodeToString(sum[:]), size)
}
