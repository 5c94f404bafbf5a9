package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш входного файла или набора файлов.
type Digest [32]byte

// DigestOf hashes raw file content.
func DigestOf(data []byte) Digest {
	return Digest(sha256.Sum256(data))
}

// Combine строит составной хеш: H( content || part1 || part2 ... ).
// Порядок parts должен быть детерминированным.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

func (d Digest) Hex() string { return hex.EncodeToString(d[:]) }
