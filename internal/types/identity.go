package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// findingIDHexLen is the truncated hex prefix length of a finding id.
const findingIDHexLen = 16

// FindingID derives a deterministic finding id from promise content. The file
// path is lowercased and separator-normalized so the same promise hashes
// identically regardless of platform path style or discovery order.
func FindingID(file string, line, column int, kind, value string) string {
	norm := strings.ToLower(strings.ReplaceAll(file, "\\", "/"))
	payload := fmt.Sprintf("%s|%d|%d|%s|%s", norm, line, column, strings.ToLower(kind), value)
	sum := sha256.Sum256([]byte(payload))
	return "finding_" + hex.EncodeToString(sum[:])[:findingIDHexLen]
}
