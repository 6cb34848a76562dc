package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint hashes the identifying fields of r. Two records of the same
// emitted event share a fingerprint.
func Fingerprint(r Record) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%d|%d",
		r.EventID,
		r.EventType,
		r.OrgID,
		strings.Join(r.Recipients, ","),
		r.Version,
		r.OccurredAt.UnixNano(),
	)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
