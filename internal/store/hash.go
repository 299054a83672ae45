package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/minio/highwayhash"
	"golang.org/x/text/unicode/norm"
)

// DomainTable prefixes table identities. The version suffix leaves room
// for a future change of canonical form.
const DomainTable = "irreptables/table/v1"

// checksumKey keys the HighwayHash body checksum. It is fixed so checksums
// are comparable across databases.
var checksumKey = []byte("irreptables/catalog/checksum/k01")

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalText is the NFC normalization of serialized table text; labels
// and names may carry non-ASCII symbols written in either composed or
// decomposed form.
func canonicalText(text []byte) []byte {
	return norm.NFC.Bytes(text)
}

// TableIdentity is the content address of a serialized table.
func TableIdentity(text []byte) string {
	return hashWithDomain(DomainTable, canonicalText(text))
}

// Checksum returns the 64-bit HighwayHash of body as 16 hex digits.
func Checksum(body []byte) (string, error) {
	h, err := highwayhash.New64(checksumKey)
	if err != nil {
		return "", fmt.Errorf("checksum: %w", err)
	}
	h.Write(body)
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
