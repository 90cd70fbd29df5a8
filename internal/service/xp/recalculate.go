package xp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/domain"
)

// Totals is a recomputed XP snapshot for one user.
type Totals struct {
	UserID        uuid.UUID
	TotalXp       int
	CurrentWeekXp int
}

// Recalculate rebuilds a user's cached totals from the transaction ledger.
// The ledger is authoritative; this repairs drift after manual data surgery
// or a bug in a propagation path. Sums are floored at zero to satisfy the
// non-negative invariant even against a pathological ledger.
func (s *Service) Recalculate(ctx context.Context, userID uuid.UUID) (*Totals, error) {
	week := domain.WeekOf(time.Now().UTC())

	totals := &Totals{UserID: userID}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		total, err := s.ledger.SumByUser(txCtx, userID)
		if err != nil {
			return fmt.Errorf("sum ledger: %w", err)
		}
		weekSum, err := s.ledger.SumByUserWeek(txCtx, userID, week)
		if err != nil {
			return fmt.Errorf("sum ledger for week %d: %w", week, err)
		}

		totals.TotalXp = floorZero(total)
		totals.CurrentWeekXp = floorZero(weekSum)
		return s.users.UpdateTotals(txCtx, userID, totals.TotalXp, totals.CurrentWeekXp)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "recalculated user totals",
		slog.String("user_id", userID.String()),
		slog.Int("total_xp", totals.TotalXp),
		slog.Int("current_week_xp", totals.CurrentWeekXp),
	)
	return totals, nil
}

// RecalculateAll rebuilds cached totals for every user. Per-user failures
// are logged and skipped; the first error is reported after the sweep so a
// single broken row does not leave the rest stale.
func (s *Service) RecalculateAll(ctx context.Context) (int, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	var firstErr error
	done := 0
	for _, id := range ids {
		if _, err := s.Recalculate(ctx, id); err != nil {
			s.log.ErrorContext(ctx, "recalculate failed",
				slog.String("user_id", id.String()),
				slog.Any("error", err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("recalculate user %s: %w", id, err)
			}
			continue
		}
		done++
	}
	return done, firstErr
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
