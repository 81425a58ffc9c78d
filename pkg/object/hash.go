package object

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
)

// ValidHash reports whether s looks like a hex object id of a supported
// length (40 for SHA-1, 64 for SHA-256).
func ValidHash(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// AlgoFor returns the hash algorithm matching the hex length of h.
func AlgoFor(h Hash) (HashAlgo, error) {
	switch len(h) {
	case 40:
		return SHA1, nil
	case 64:
		return SHA256, nil
	default:
		return 0, fmt.Errorf("hash %q: unsupported length %d", h, len(h))
	}
}

func newHasher(algo HashAlgo) hash.Hash {
	if algo == SHA256 {
		return sha256.New()
	}
	return sha1.New()
}

// HashObject computes the object id of the envelope "type len\0content",
// the same bytes the store holds before compression.
func HashObject(algo HashAlgo, objType ObjectType, data []byte) Hash {
	h := newHasher(algo)
	fmt.Fprintf(h, "%s %d\x00", objType, len(data))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}
