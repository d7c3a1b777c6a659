package value

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainType   = "groqtype/type/v1"
	DomainSchema = "groqtype/schema/v1"
	DomainQuery  = "groqtype/query/v1"

	// DomainOptions keys evaluator settings in the inference cache.
	DomainOptions = "groqtype/options/v1"
)

// HashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash marshals v with MarshalExact and hashes it under domain.
// Returns error if v cannot be canonically marshaled (NaN or Inf numbers).
func Hash(domain string, v Value) (string, error) {
	canonical, err := MarshalExact(v)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", domain, err)
	}
	return HashWithDomain(domain, canonical), nil
}

// MustHash is like Hash but panics on error.
// Use only in tests or when v is known to contain finite numbers only.
func MustHash(domain string, v Value) string {
	h, err := Hash(domain, v)
	if err != nil {
		panic(err)
	}
	return h
}
