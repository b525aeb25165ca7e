package memory

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ContentHash computes the hex-encoded digest spec.md §3 stores as
// ContextLock.content_hash. Same hash-then-hex-encode shape as the
// teacher's internal/crypto.Hash/BytesToHex, but keeps golang.org/x/crypto
// wired through blake2b rather than stdlib sha256 — the teacher already
// depends on the package (for PBKDF2 key derivation in its vault), so the
// content-hash path reuses it instead of reaching for crypto/sha256.
func ContentHash(content string) string {
	sum := blake2b.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
