package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashMethod  = "pbkdf2:sha256"
	saltLength  = 16
	keyLength   = 32
	saltCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrMalformedHash = errors.New("malformed password hash")

// PasswordHasher produces and checks hashes in the
// "pbkdf2:sha256:<iterations>$<salt>$<hex digest>" format.
type PasswordHasher struct {
	iterations int
}

func NewPasswordHasher(iterations int) *PasswordHasher {
	return &PasswordHasher{iterations: iterations}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	salt, err := randomSalt(saltLength)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	digest := pbkdf2.Key([]byte(password), []byte(salt), h.iterations, keyLength, sha256.New)
	return fmt.Sprintf("%s:%d$%s$%s", hashMethod, h.iterations, salt, hex.EncodeToString(digest)), nil
}

// Verify reports whether password matches the stored hash. Malformed hashes
// never match.
func (h *PasswordHasher) Verify(hash, password string) bool {
	iterations, salt, want, err := parseHash(hash)
	if err != nil {
		return false
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func parseHash(hash string) (int, string, []byte, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 3 {
		return 0, "", nil, ErrMalformedHash
	}

	iterStr, ok := strings.CutPrefix(parts[0], hashMethod+":")
	if !ok {
		return 0, "", nil, ErrMalformedHash
	}
	iterations, err := strconv.Atoi(iterStr)
	if err != nil || iterations <= 0 {
		return 0, "", nil, ErrMalformedHash
	}

	digest, err := hex.DecodeString(parts[2])
	if err != nil || len(digest) == 0 {
		return 0, "", nil, ErrMalformedHash
	}
	return iterations, parts[1], digest, nil
}

func randomSalt(n int) (string, error) {
	max := big.NewInt(int64(len(saltCharset)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(saltCharset[idx.Int64()])
	}
	return b.String(), nil
}
