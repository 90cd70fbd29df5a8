package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User is the partial view of a platform user relevant to the review core.
// TotalXp and CurrentWeekXp are denormalized caches of the XpTransaction
// ledger; they are mutated only through the XP propagation engine or the
// initial award path and must never go negative.
type User struct {
	ID            uuid.UUID
	Username      string
	Role          UserRole
	TotalXp       int
	CurrentWeekXp int
	MissedReviews int
	OptOut        OptOutPrefs
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OptOutPrefs is the typed form of the user's review opt-out preference.
// Legacy rows store this as a JSON blob; malformed blobs decode to the
// zero value ("not opted out") rather than failing the whole allocation.
type OptOutPrefs struct {
	OptedOut     bool       `json:"opted_out"`
	OptedOutTill *time.Time `json:"opted_out_till,omitempty"`
}

// Active reports whether the user is opted out at the given instant:
// either via the explicit flag or a time-bounded window still in the future.
func (p OptOutPrefs) Active(now time.Time) bool {
	if p.OptedOut {
		return true
	}
	return p.OptedOutTill != nil && p.OptedOutTill.After(now)
}

// ParseOptOutPrefs decodes a raw preferences blob. Fail open: nil, empty,
// and malformed input all mean "not opted out". The second return value
// reports whether the blob was malformed so callers can log it.
func ParseOptOutPrefs(raw []byte) (OptOutPrefs, bool) {
	if len(raw) == 0 {
		return OptOutPrefs{}, false
	}
	var p OptOutPrefs
	if err := json.Unmarshal(raw, &p); err != nil {
		return OptOutPrefs{}, true
	}
	return p, false
}
