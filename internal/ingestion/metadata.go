package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata describes a decoded upload.
type Metadata struct {
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the raw bytes
	Size      int    `json:"size"`
	Charset   string `json:"charset,omitempty"`
}

// NewMetadata creates metadata for raw upload bytes with the current timestamp.
func NewMetadata(raw []byte, charset string) *Metadata {
	return &Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(raw),
		Size:      len(raw),
		Charset:   charset,
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
