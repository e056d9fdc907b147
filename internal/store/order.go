// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

package store

import (
	"sort"
	"time"
)

// sortByFirstVisit orders ids by visit time, then by the sequence the visit
// was seen in.
func sortByFirstVisit(ids []string, key func(string) (time.Time, int)) {
	sort.SliceStable(ids, func(i, j int) bool {
		ti, si := key(ids[i])
		tj, sj := key(ids[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return si < sj
	})
}
