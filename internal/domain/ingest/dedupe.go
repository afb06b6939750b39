package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const keySeparator = "|"

// IdentityKey joins the lower-cased, trimmed values of keyFields in order. All
// blank values give the empty key.
func IdentityKey(fields map[string]any, keyFields []string) string {
	parts := make([]string, len(keyFields))
	blank := true
	for i, name := range keyFields {
		parts[i] = strings.ToLower(valueString(fields[name]))
		if parts[i] != "" {
			blank = false
		}
	}
	if blank {
		return ""
	}
	return strings.Join(parts, keySeparator)
}

// ExistingKeys computes the identity of every stored record.
func ExistingKeys(rows []map[string]any, keyFields []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if k := IdentityKey(row, keyFields); k != "" {
			keys[k] = struct{}{}
		}
	}
	return keys
}

// Dedupe drops candidates whose key is already stored or was accepted earlier in
// the batch. Candidates with an empty key are always accepted.
func Dedupe(candidates []Candidate, existing map[string]struct{}, keyFields []string) []Candidate {
	seen := make(map[string]struct{}, len(candidates))
	accepted := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		c.Key = IdentityKey(c.Fields, keyFields)
		if c.Key != "" {
			if _, ok := existing[c.Key]; ok {
				continue
			}
			if _, ok := seen[c.Key]; ok {
				continue
			}
			seen[c.Key] = struct{}{}
		}
		accepted = append(accepted, c)
	}
	return accepted
}

// storedKey is the fixed-width form of key kept in the unique index.
func storedKey(key string) *string {
	if key == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(key))
	s := hex.EncodeToString(sum[:])
	return &s
}
