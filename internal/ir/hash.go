package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainModel    = "modgen/model/v1"
	DomainArtifact = "modgen/artifact/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ModelHash computes the identity of a consolidated model from its canonical
// JSON. Two aggregation passes over the same fact snapshot hash equal.
func ModelHash(model Canonicaler) (string, error) {
	canonical, err := MarshalCanonical(model)
	if err != nil {
		return "", fmt.Errorf("ModelHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainModel, canonical), nil
}

// ArtifactHash computes the content identity of a rendered artifact. The name
// is part of the hash so moving an artifact counts as a change.
func ArtifactHash(name string, content []byte) string {
	data := make([]byte, 0, len(name)+1+len(content))
	data = append(data, name...)
	data = append(data, 0x00)
	data = append(data, content...)
	return hashWithDomain(DomainArtifact, data)
}
