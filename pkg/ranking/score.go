// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ranking turns accumulated pairwise preferences into a sortable score.
//
// The score of an item is the share of its comparisons it won:
//
//	Score = likes / (likes + dislikes)
//
// Items that were never compared have no ratio; they get [Unrated], a fixed value
// below every real score, so they sort first ascending and last descending.
package ranking

import "fmt"

// Unrated is the score of an item with no recorded comparisons.
const Unrated = -1.0

// Score returns the fraction of comparisons won, in [0, 1], or [Unrated] when
// the item has never been compared. Negative counters are treated as zero.
func Score(likes, dislikes int64) float64 {
	if likes < 0 {
		likes = 0
	}
	if dislikes < 0 {
		dislikes = 0
	}

	total := likes + dislikes
	if total == 0 {
		return Unrated
	}
	return float64(likes) / float64(total)
}

// IsRated reports whether a score comes from at least one comparison.
func IsRated(score float64) bool {
	return score != Unrated
}

// OrderExpr renders [Score] as a SQL expression over the given columns, so that
// ordering in the database agrees with the value computed in Go. The expression
// is valid in both PostgreSQL and SQLite.
func OrderExpr(likesCol, dislikesCol string) string {
	return fmt.Sprintf(
		"(CASE WHEN %[1]s + %[2]s = 0 THEN %[3]s ELSE CAST(%[1]s AS DOUBLE PRECISION) / (%[1]s + %[2]s) END)",
		likesCol, dislikesCol, "-1.0",
	)
}
