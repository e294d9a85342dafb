package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// TitleKey is the title-dedup hash: SHA-1 of the lowercased title with
// whitespace runs collapsed.
func TitleKey(title string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(title), " "))
	sum := sha1.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Dedup keeps the highest-scoring record for every title key. Records with
// equal scores keep their input order, so the first one seen wins.
func Dedup(records []ResultRecord) []ResultRecord {
	sorted := make([]ResultRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	seen := make(map[string]bool, len(sorted))
	out := make([]ResultRecord, 0, len(sorted))
	for _, r := range sorted {
		key := TitleKey(r.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
