package shortsync

import (
	"context"
	"log/slog"

	"shortwatch/lib/shorts"
)

// reconcile diffs the freshly scraped positions against the stored active set
// and applies the difference. Every (owner, ticker) pair falls into exactly
// one of four cases:
//
//   - scraped and stored with the same weight and open date: nothing to do
//   - scraped and stored but the figures moved: re-key the active row so the
//     new revision lands in history
//   - scraped only: a new disclosure, insert it
//   - stored only: the holder dropped below the threshold, retire the row
func (s Service) reconcile(ctx context.Context, company shorts.Company, current []shorts.ShortPosition, stored []shorts.StoredPosition) (bool, error) {
	changed := false

	for _, position := range current {
		matched := false
		for _, existing := range stored {
			if !position.SamePair(existing.ShortPosition) {
				continue
			}
			matched = true
			if position.Weight == existing.Weight && position.OpenDate.Equal(existing.OpenDate) {
				break
			}
			if err := s.updatePosition(ctx, position); err != nil {
				return changed, err
			}
			changed = true
			break
		}
		if matched {
			continue
		}
		id, err := s.store.Insert(ctx, position)
		if err != nil {
			return changed, err
		}
		slog.InfoContext(ctx, "new short position",
			"company", company.Name,
			"position", position.String(),
			"id", id,
		)
		changed = true
	}

	for _, existing := range stored {
		alive := false
		for _, position := range current {
			if position.SamePair(existing.ShortPosition) {
				alive = true
				break
			}
		}
		if alive {
			continue
		}
		if existing.ID == shorts.VoidID {
			// the row lost its identity at some point, it cannot be retired
			// in place. Surface it so someone repairs the table.
			slog.WarnContext(ctx, "cannot retire position without identity",
				"company", company.Name,
				"position", existing.String(),
			)
			continue
		}
		if err := s.store.Retire(ctx, existing.ID); err != nil {
			return changed, err
		}
		slog.InfoContext(ctx, "short position closed",
			"company", company.Name,
			"position", existing.String(),
		)
		changed = true
	}

	return changed, nil
}

// updatePosition replaces the active revision of a pair with the freshly
// scraped one. The stored slice the caller diffed against may be stale by the
// time we get here, so the row is looked up again right before the write.
func (s Service) updatePosition(ctx context.Context, position shorts.ShortPosition) error {
	existing, err := s.store.ActivePosition(ctx, position.Ticker, position.Owner)
	if err != nil {
		return err
	}
	if existing == nil || existing.ID == shorts.VoidID {
		if existing != nil {
			slog.WarnContext(ctx, "active row has no identity, inserting replacement",
				"position", position.String(),
			)
		}
		_, err := s.store.Insert(ctx, position)
		return err
	}

	id, err := s.store.Rekey(ctx, existing.ID, position)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "short position updated",
		"position", position.String(),
		"previous", existing.String(),
		"id", id,
	)
	return nil
}
