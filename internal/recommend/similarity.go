// Reelrank - Personalized Media Recommendation Service
// Copyright 2026 The Reelrank Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

package recommend

import "math"

// minSharedItems is the minimum number of items two users must both have
// rated before a correlation is meaningful.
const minSharedItems = 2

// Pearson computes the Pearson correlation between two rating vectors over
// the items both users have rated.
//
// Fewer than two shared items, or zero rating variance on either side of
// the shared set, yields 0 rather than an error or NaN. The result is
// clamped to [-1, 1] to absorb floating point drift, and the function is
// symmetric in its arguments.
func Pearson(a, b map[int]float64) float64 {
	shared := make([]int, 0, len(a))
	for itemID := range a {
		if _, ok := b[itemID]; ok {
			shared = append(shared, itemID)
		}
	}
	if len(shared) < minSharedItems {
		return 0
	}

	var meanA, meanB float64
	for _, itemID := range shared {
		meanA += a[itemID]
		meanB += b[itemID]
	}
	n := float64(len(shared))
	meanA /= n
	meanB /= n

	var num, denA, denB float64
	for _, itemID := range shared {
		da := a[itemID] - meanA
		db := b[itemID] - meanB
		num += da * db
		denA += da * da
		denB += db * db
	}

	// A flat rating vector carries no directional signal.
	if denA == 0 || denB == 0 {
		return 0
	}

	r := num / math.Sqrt(denA*denB)
	if r > 1 {
		return 1
	}
	if r < -1 {
		return -1
	}
	return r
}
