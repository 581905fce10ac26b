package ir

import (
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/blake3"
)

// Fingerprint is a content hash of a document's external value. Two trees
// with equal fingerprints encode to the same wire value.
type Fingerprint [32]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// FingerprintOf hashes the canonical wire encoding of root's value.
// It panics if the tree cannot be encoded, which only happens for data
// payloads holding values encoding/json rejects.
func FingerprintOf(root *Node) Fingerprint {
	d, err := json.Marshal(Value(root))
	if err != nil {
		panic("ir: fingerprint: " + err.Error())
	}
	return blake3.Sum256(d)
}
