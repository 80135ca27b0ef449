package evidencehash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// CanonicalSHA256 hashes json.Marshal(v) bytes with SHA256 hex.
func CanonicalSHA256(v any) (hexHash string, bytes []byte, err error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), b, nil
}

// FingerprintMatch produces the provenance-safe evidence stored on a PHI
// finding: a truncated one-way hash of the matched text plus its length.
// The raw match never appears in any output.
func FingerprintMatch(match string) string {
	sum := sha256.Sum256([]byte(match))
	return fmt.Sprintf("sha256:%s/len=%d", hex.EncodeToString(sum[:])[:16], len(match))
}

// RedactionPlaceholder is the evidence value used when even a fingerprint is
// unwanted, e.g. in rendered summaries.
const RedactionPlaceholder = "[REDACTED]"

// AuditExportHash computes a single hash over an ordered audit log export so
// a consumer can verify the log was not reordered or truncated.
func AuditExportHash(sessionID string, entryHashes []string) string {
	var b strings.Builder
	b.WriteString(sessionID)
	b.WriteString("\n")
	for _, h := range entryHashes {
		b.WriteString(h)
		b.WriteString("\n")
	}
	return HashStringSHA256Hex(b.String())
}

func HashStringSHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
