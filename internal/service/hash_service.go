package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Key derivation cost. Changing these only affects new hashes; Verify reads
// the cost back out of the encoded string, so old credentials keep working.
const (
	hashIterations  uint32 = 1
	hashMemoryKiB   uint32 = 64 * 1024
	hashParallelism uint8  = 4
	hashKeyBytes    uint32 = 32
	hashSaltBytes          = 16
)

// Argon2HashService hashes merchant passwords with Argon2id, encoded in the
// standard $argon2id$v=..$m=..,t=..,p=..$salt$key form.
type Argon2HashService struct{}

func NewArgon2HashService() *Argon2HashService {
	return &Argon2HashService{}
}

// Hash derives a key from the password under a fresh random salt and returns
// the self-describing encoded string.
func (s *Argon2HashService) Hash(password string) (string, error) {
	salt := make([]byte, hashSaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, hashIterations, hashMemoryKiB, hashParallelism, hashKeyBytes)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		hashMemoryKiB, hashIterations, hashParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify re-derives the key with the cost recorded in encoded and compares
// in constant time.
func (s *Argon2HashService) Verify(password string, encoded string) (bool, error) {
	salt, key, memory, iterations, parallelism, err := parseEncodedHash(encoded)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

func parseEncodedHash(encoded string) (salt, key []byte, memory, iterations uint32, parallelism uint8, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		err = fmt.Errorf("malformed argon2id hash")
		return
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		err = fmt.Errorf("parse hash version: %w", err)
		return
	}
	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		err = fmt.Errorf("parse hash cost: %w", err)
		return
	}

	if salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		err = fmt.Errorf("decode salt: %w", err)
		return
	}
	if key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		err = fmt.Errorf("decode key: %w", err)
		return
	}
	return
}
