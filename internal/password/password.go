// Package password hashes and verifies account passwords.
//
// Hashes are stored as "pbkdf2:sha256:<iterations>$<salt>$<hex digest>".
// Legacy bcrypt hashes ("$2a$...", "$2b$...") are still accepted by Verify.
package password

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

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 600000
	MinIterations     = 100000
	saltLength        = 16
	keyLength         = sha256.Size
	saltAlphabet      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrMalformedHash = errors.New("malformed password hash")

type Hasher struct {
	iterations int
}

// NewHasher returns a Hasher using the given PBKDF2 iteration count.
// Zero selects DefaultIterations; values below MinIterations are raised to it.
func NewHasher(iterations int) *Hasher {
	if iterations == 0 {
		iterations = DefaultIterations
	}
	if iterations < MinIterations {
		iterations = MinIterations
	}
	return &Hasher{iterations: iterations}
}

func (h *Hasher) Iterations() int {
	return h.iterations
}

func (h *Hasher) Hash(plain string) (string, error) {
	salt, err := randomSalt(saltLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	digest := pbkdf2.Key([]byte(plain), []byte(salt), h.iterations, keyLength, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", h.iterations, salt, hex.EncodeToString(digest)), nil
}

// Verify reports whether plain matches hash. A malformed hash is an error,
// a mismatch is not.
func (h *Hasher) Verify(hash, plain string) (bool, error) {
	if strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$") {
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
		}
		return true, nil
	}

	method, salt, digestHex, ok := splitHash(hash)
	if !ok {
		return false, ErrMalformedHash
	}

	parts := strings.Split(method, ":")
	if len(parts) != 3 || parts[0] != "pbkdf2" || parts[1] != "sha256" {
		return false, fmt.Errorf("%w: unsupported method %q", ErrMalformedHash, method)
	}
	iterations, err := strconv.Atoi(parts[2])
	if err != nil || iterations <= 0 {
		return false, fmt.Errorf("%w: bad iteration count", ErrMalformedHash)
	}

	expected, err := hex.DecodeString(digestHex)
	if err != nil || len(expected) == 0 {
		return false, fmt.Errorf("%w: bad digest", ErrMalformedHash)
	}

	actual := pbkdf2.Key([]byte(plain), []byte(salt), iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(actual, expected) == 1, nil
}

func splitHash(hash string) (method, salt, digest string, ok bool) {
	parts := strings.SplitN(hash, "$", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

func randomSalt(n int) (string, error) {
	limit := big.NewInt(int64(len(saltAlphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(saltAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
