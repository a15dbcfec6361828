package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math/big"

	"golang.org/x/crypto/argon2"

	"github.com/solidmarket/marketplace-backend/pkg/config"
)

const tempPasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ErrInvalidHash signals a malformed Argon2id hash string.
var ErrInvalidHash = fmt.Errorf("invalid argon2id hash")

type hashParams struct {
	memory      uint32
	time        uint32
	parallelism uint8
	saltLen     uint32
	keyLen      uint32
}

func paramsFromConfig(cfg config.PasswordConfig) hashParams {
	return hashParams{
		memory:      boundedUint32(cfg.ArgonMemoryKB, 8, 512*1024),
		time:        boundedUint32(cfg.ArgonTime, 1, 10),
		parallelism: uint8(bounded(cfg.ArgonParallelism, 1, 255)),
		saltLen:     boundedUint32(cfg.ArgonSaltLen, 8, 64),
		keyLen:      boundedUint32(cfg.ArgonKeyLen, 16, 64),
	}
}

// HashPassword derives an Argon2id hash and returns it in PHC string format,
// so the parameters travel with the hash and can be tightened later without
// invalidating stored credentials.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	p := paramsFromConfig(cfg)
	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.parallelism, p.keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches the encoded hash. The
// comparison is constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	p, salt, want, err := parseHash(encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), salt, p.time, p.memory, p.parallelism, p.keyLen)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func parseHash(encoded string) (hashParams, []byte, []byte, error) {
	var (
		p                 hashParams
		version           int
		saltB64, keyB64   string
		memory, time, par uint
	)
	n, err := fmt.Sscanf(encoded, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s", &version, &memory, &time, &par, &saltB64)
	if err != nil || n != 5 || version != argon2.Version {
		return p, nil, nil, ErrInvalidHash
	}

	// Sscanf's %s is greedy, so the trailing segment still holds "salt$key".
	var found bool
	for i := 0; i < len(saltB64); i++ {
		if saltB64[i] == '$' {
			keyB64, saltB64, found = saltB64[i+1:], saltB64[:i], true
			break
		}
	}
	if !found {
		return p, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return p, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(keyB64)
	if err != nil {
		return p, nil, nil, ErrInvalidHash
	}

	p.memory = uint32(memory)
	p.time = uint32(time)
	p.parallelism = uint8(par)
	p.saltLen = uint32(len(salt))
	p.keyLen = uint32(len(key))
	return p, salt, key, nil
}

// GenerateTempPassword returns a random alphanumeric string for one-time
// credentials handed to newly provisioned accounts.
func GenerateTempPassword(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	out := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("generate temp password: %w", err)
		}
		out[i] = tempPasswordAlphabet[idx.Int64()]
	}
	return string(out), nil
}

func bounded(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func boundedUint32(value, min, max int) uint32 {
	return uint32(bounded(value, min, max))
}
