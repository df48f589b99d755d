package simulation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"lukechampine.com/blake3"
)

// HashLength is the length of a hex encoded digest.
const HashLength = 64

// Hasher turns arbitrary bytes into a fixed length lowercase hex digest.
type Hasher interface {
	Name() string
	Sum(data []byte) string
}

type sha256Hasher struct{}

func (sha256Hasher) Name() string { return "sha256" }

func (sha256Hasher) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

type blake3Hasher struct{}

func (blake3Hasher) Name() string { return "blake3" }

func (blake3Hasher) Sum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var (
	// SHA256 is the default hasher. Digests match any implementation that
	// hashes the same canonical text with SHA-256.
	SHA256 Hasher = sha256Hasher{}
	// Blake3 hashes with BLAKE3-256.
	Blake3 Hasher = blake3Hasher{}
)

// HasherByName resolves a hasher from its configured name.
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SHA256.Name():
		return SHA256, nil
	case Blake3.Name():
		return Blake3, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
	}
}

// FormatTimestamp renders a microsecond timestamp as <seconds>.<micros>,
// with the fractional part always six digits wide.
func FormatTimestamp(micros int64) string {
	sign := ""
	if micros < 0 {
		sign = "-"
		micros = -micros
	}
	return fmt.Sprintf("%s%d.%06d", sign, micros/1_000_000, micros%1_000_000)
}

// CanonicalBlockText is the exact text that gets hashed for a block:
// index, data, previous hash, timestamp and nonce concatenated in that order.
func CanonicalBlockText(index uint64, data, prevHash string, timestamp int64, nonce uint64) string {
	var sb strings.Builder
	sb.Grow(len(data) + len(prevHash) + 48)
	sb.WriteString(strconv.FormatUint(index, 10))
	sb.WriteString(data)
	sb.WriteString(prevHash)
	sb.WriteString(FormatTimestamp(timestamp))
	sb.WriteString(strconv.FormatUint(nonce, 10))
	return sb.String()
}

// BlockDigest hashes the canonical text of a block's fields.
func BlockDigest(h Hasher, index uint64, data, prevHash string, timestamp int64, nonce uint64) string {
	return h.Sum([]byte(CanonicalBlockText(index, data, prevHash, timestamp, nonce)))
}
