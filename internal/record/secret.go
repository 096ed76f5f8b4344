package record

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
)

// Secret sizes in random bytes.
const (
	SecretKeyBytes = 16
	ChecksumBytes  = 32
)

// Dev key bounds: an 11-digit integer.
const (
	minDevKey = 10000000000
	maxDevKey = 99999999999
)

// Secrets are the random values stored in the Config Record.
type Secrets struct {
	Key      string
	Checksum string
}

// NewSecrets draws a fresh key and checksum from r, normally crypto/rand.Reader.
func NewSecrets(r io.Reader) (Secrets, error) {
	key, err := randomHex(r, SecretKeyBytes)
	if err != nil {
		return Secrets{}, fmt.Errorf("generating secret key: %w", err)
	}
	sum, err := randomHex(r, ChecksumBytes)
	if err != nil {
		return Secrets{}, fmt.Errorf("generating checksum: %w", err)
	}
	return Secrets{Key: key, Checksum: sum}, nil
}

// NewDevKey returns a uniformly random 11-digit dev key read from r.
func NewDevKey(r io.Reader) (int64, error) {
	n, err := randInt(r, maxDevKey-minDevKey+1)
	if err != nil {
		return 0, fmt.Errorf("generating dev key: %w", err)
	}
	return minDevKey + n, nil
}

func randomHex(r io.Reader, n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func randInt(r io.Reader, max int64) (int64, error) {
	n, err := rand.Int(r, big.NewInt(max))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}
