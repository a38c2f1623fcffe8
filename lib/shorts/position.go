package shorts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ShortPosition is one disclosed short interest against a listed company.
type ShortPosition struct {
	// Name of the investment fund that holds the position.
	Owner string
	// Percentage over the company's total capitalization sold short by the
	// owner. Disclosed values sit between 0 and 100 but the range is not
	// enforced here.
	Weight float64
	// Date the position was disclosed. Disclosures are published once per
	// day, so only the calendar date carries meaning; see timezone.DisclosureUTC
	// for the fixed time-of-day convention.
	OpenDate time.Time
	// Ticker of the shorted company.
	Ticker string
}

// SamePair reports whether two positions refer to the same (owner, ticker)
// pair. Weight and open date may legitimately differ between two snapshots of
// the same position.
func (p ShortPosition) SamePair(other ShortPosition) bool {
	return p.Owner == other.Owner && p.Ticker == other.Ticker
}

func (p ShortPosition) String() string {
	return fmt.Sprintf("%s - %v (%s)", p.Owner, p.Weight, p.OpenDate.Format(time.DateOnly))
}

// AliveShortPositions is the snapshot of every active short position of one
// company at one instant.
type AliveShortPositions struct {
	// Summation of Weight across Positions.
	Total float64
	// Active positions in source page order. The order is not significant.
	Positions []ShortPosition
	// Time the snapshot was taken.
	Date time.Time
}

// NewAliveShortPositions builds a snapshot from extracted positions, computing
// the aggregate total.
func NewAliveShortPositions(positions []ShortPosition, date time.Time) AliveShortPositions {
	var total float64
	for _, p := range positions {
		total += p.Weight
	}
	return AliveShortPositions{
		Total:     total,
		Positions: positions,
		Date:      date,
	}
}

func (a AliveShortPositions) String() string {
	var b strings.Builder
	for _, p := range a.Positions {
		fmt.Fprintf(&b, "%s: %v%% (%s)\n", p.Owner, p.Weight, p.OpenDate.Format(time.DateOnly))
	}
	return b.String()
}

// VoidID is the sentinel identity written over an active row when the
// position is retired. The storage engine cannot delete rows from
// non-time-partitioned tables, so retirement re-keys the row to this reserved
// identity instead.
var VoidID = uuid.Nil

// StoredPosition is the persisted mirror of an active position. ID joins the
// active-set row with its historical row.
type StoredPosition struct {
	ID uuid.UUID
	ShortPosition
}
