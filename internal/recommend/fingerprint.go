// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
)

// Fingerprint returns a stable hash of a subject's liked item IDs.
//
// The IDs are sorted before hashing so the fingerprint is independent of
// input order. Cache keys embed the fingerprint, which makes a taste
// change (a new liked item) a natural cache miss without explicit
// invalidation.
func Fingerprint(likedIDs []int) string {
	ids := make([]int, len(likedIDs))
	copy(ids, likedIDs)
	sort.Ints(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		// Unreachable for []int; keep a deterministic fallback anyway.
		data = []byte(fmt.Sprint(ids))
	}

	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:16])
}
