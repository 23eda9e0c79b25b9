package project

import (
	"crypto/sha256"
	"encoding/binary"
)

// Digest is a fixed 256-bit hash, compatible with source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by every dependency digest.
// Callers keep deps in a deterministic order.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint digests the parts of a configuration that change the
// diagnostics produced for an unchanged file.
func (c *Config) Fingerprint() Digest {
	h := sha256.New()
	var flag [1]byte
	if c.Check.DefaultPackageExemption {
		flag[0] = 1
	}
	_, _ = h.Write(flag[:])
	for _, s := range []string{c.Severity.UnsupportedTag, c.Severity.DuplicateTag, c.Severity.Syntax} {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(s))) //nolint:gosec // severity names are short
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(s))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
