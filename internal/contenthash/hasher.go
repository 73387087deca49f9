// Package contenthash produces deterministic digests of structured document
// content for integrity verification. It is not a security boundary.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash serializes v into canonical JSON and returns the hex-encoded SHA-256
// digest of the canonical bytes. The result is independent of map key
// insertion order: v is normalized through a JSON round-trip so every object
// is encoded with sorted keys, recursively.
func Hash(v any) (string, error) {
	canonical, err := Canonicalize(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Canonicalize returns the canonical JSON encoding of v. Struct values are
// first flattened to generic maps so their fields participate in key sorting
// like any other object.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serialize content: %w", err)
	}

	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, fmt.Errorf("normalize content: %w", err)
	}

	// encoding/json writes map keys in sorted order, which makes this
	// second pass the canonical form.
	canonical, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("canonicalize content: %w", err)
	}
	return canonical, nil
}
