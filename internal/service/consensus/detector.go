// Package consensus computes reviewer score dispersion for finalized
// submissions and classifies disagreement so ambiguous cases route to a
// human tie-break instead of being auto-resolved.
package consensus

import (
	"fmt"
	"math"

	"github.com/peerxp/peerxp-backend/internal/domain"
)

// Thresholds parameterize dispute classification. SpamLow/SpamHigh are on
// the XP scale of review scores.
type Thresholds struct {
	StdDev   float64
	SpamLow  int
	SpamHigh int
}

// Verdict is the outcome of classifying one submission's reviews.
type Verdict struct {
	Divergent    bool
	StdDev       float64
	ConflictType domain.ConflictType
	Description  string
}

// Classify applies the conflict rules to a set of completed reviews, in
// priority order: spam dispute, category mismatch, tier dispute, single
// outlier, general divergence. A submission is divergent only when the
// population standard deviation of its scores exceeds the threshold; below
// that the verdict is non-divergent regardless of categories or tiers.
func Classify(reviews []domain.PeerReview, stdDev float64, th Thresholds) Verdict {
	v := Verdict{StdDev: stdDev}
	if len(reviews) < 2 || stdDev <= th.StdDev {
		return v
	}
	v.Divergent = true

	scores := make([]int, len(reviews))
	for i, r := range reviews {
		scores[i] = r.Score
	}

	if low, high, ok := spamPair(scores, th); ok {
		v.ConflictType = domain.ConflictTypeSpamDispute
		v.Description = fmt.Sprintf("severe quality disagreement: scores %d and %d", low, high)
		return v
	}

	if cats := distinctNonEmpty(reviews, func(r domain.PeerReview) string { return r.Category }); len(cats) > 1 {
		v.ConflictType = domain.ConflictTypeCategoryMismatch
		v.Description = fmt.Sprintf("reviewers assigned %d distinct categories", len(cats))
		return v
	}

	if tiers := distinctNonEmpty(reviews, func(r domain.PeerReview) string { return r.Tier }); len(tiers) > 1 {
		v.ConflictType = domain.ConflictTypeTierDispute
		v.Description = fmt.Sprintf("reviewers assigned %d distinct tiers", len(tiers))
		return v
	}

	if outlier, ok := singleOutlier(scores); ok {
		v.ConflictType = domain.ConflictTypeOutlier
		v.Description = fmt.Sprintf("one score (%d) deviates from the mean by more than half the mean", outlier)
		return v
	}

	v.ConflictType = domain.ConflictTypeGeneral
	v.Description = fmt.Sprintf("score spread %.1f exceeds threshold %.1f", stdDev, th.StdDev)
	return v
}

// spamPair reports whether the scores contain both a spam-level score and a
// high-quality score, which reads as a severe disagreement rather than noise.
func spamPair(scores []int, th Thresholds) (low, high int, ok bool) {
	hasLow, hasHigh := false, false
	for _, s := range scores {
		if s <= th.SpamLow {
			hasLow, low = true, s
		}
		if s >= th.SpamHigh {
			hasHigh, high = true, s
		}
	}
	return low, high, hasLow && hasHigh
}

func distinctNonEmpty(reviews []domain.PeerReview, field func(domain.PeerReview) string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, r := range reviews {
		if v := field(r); v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// singleOutlier reports whether exactly one score deviates from the mean by
// more than 50% of the mean.
func singleOutlier(scores []int) (int, bool) {
	mean := 0.0
	for _, s := range scores {
		mean += float64(s)
	}
	mean /= float64(len(scores))
	if mean == 0 {
		return 0, false
	}

	outlier, count := 0, 0
	for _, s := range scores {
		if math.Abs(float64(s)-mean) > mean/2 {
			outlier = s
			count++
		}
	}
	return outlier, count == 1
}

// StdDevPop computes the population standard deviation of scores. The
// database aggregate is the primary source; this exists for callers that
// already hold the scores in memory.
func StdDevPop(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	mean := 0.0
	for _, s := range scores {
		mean += float64(s)
	}
	mean /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		d := float64(s) - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(scores)))
}
