package allocation

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/domain"
)

// EligibilityRules holds the thresholds applied when filtering reviewer
// candidates. Zero values are not meaningful; build rules from config.
type EligibilityRules struct {
	MaxActiveAssignments int
	MaxMissedReviews     int
	MinTotalXp           int
}

// FilterCandidates applies the eligibility rule set to a candidate snapshot,
// in order: author/exclusion set, workload cap, missed-review cap, minimum
// experience (admins exempt), opt-out. It returns the eligible candidates
// and the IDs whose opt-out preference blob was malformed (excluded from
// neither list; malformed means "not opted out", but callers log it).
func FilterCandidates(
	candidates []domain.ReviewerCandidate,
	authorID uuid.UUID,
	exclude map[uuid.UUID]struct{},
	rules EligibilityRules,
	now time.Time,
) (eligible []domain.ReviewerCandidate, malformed []uuid.UUID) {
	for _, c := range candidates {
		if c.UserID == authorID {
			continue
		}
		if _, skip := exclude[c.UserID]; skip {
			continue
		}
		if c.ActiveAssignments >= rules.MaxActiveAssignments {
			continue
		}
		if c.MissedReviews > rules.MaxMissedReviews {
			continue
		}
		if c.TotalXp < rules.MinTotalXp && c.Role != domain.UserRoleAdmin {
			continue
		}
		if c.OptOutMalformed {
			malformed = append(malformed, c.UserID)
		}
		if c.OptOut.Active(now) {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible, malformed
}

// Rank sorts candidates ascending by active-assignment count, tie-broken by
// descending total XP, then by user ID for full determinism. Workload
// balancing falls out of the sort order; there is no round-robin state.
// The input slice is not modified.
func Rank(candidates []domain.ReviewerCandidate) []domain.ReviewerCandidate {
	ranked := make([]domain.ReviewerCandidate, len(candidates))
	copy(ranked, candidates)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.ActiveAssignments != b.ActiveAssignments {
			return a.ActiveAssignments < b.ActiveAssignments
		}
		if a.TotalXp != b.TotalXp {
			return a.TotalXp > b.TotalXp
		}
		return a.UserID.String() < b.UserID.String()
	})
	return ranked
}
