package shortstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shortwatch/lib/shorts"

	_ "embed"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("lib/shortstore")

//go:embed schema.sql
var Schema string

// Store persists the active/historical short position pair. The active set is
// one id per alive position; every id joins exactly one immutable row in the
// history table. Updates and retirements move the active pointer, history
// rows are never touched after insert.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect creates a pooled connection and verifies it.
func Connect(ctx context.Context, url string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// StockListing returns the company directory. A listing row with a missing
// name, ticker or ISIN is corrupt and fails the whole read, there is no
// sensible way to process a company that cannot be identified.
func (s *Store) StockListing(ctx context.Context) ([]shorts.Company, error) {
	ctx, span := tracer.Start(ctx, "StockListing")
	defer span.End()

	rows, err := s.pool.Query(ctx, `SELECT full_name, name, ticker, isin, extra_id FROM ibex_listing ORDER BY ticker`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()

	var companies []shorts.Company
	for rows.Next() {
		var fullName, name, ticker, isin, nif *string
		if err := rows.Scan(&fullName, &name, &ticker, &isin, &nif); err != nil {
			return nil, err
		}
		company, err := hydrateCompany(fullName, name, ticker, isin, nif)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

func hydrateCompany(fullName, name, ticker, isin, nif *string) (shorts.Company, error) {
	if name == nil {
		return shorts.Company{}, fmt.Errorf("%w: listing row has no name", shorts.ErrCorruptRecord)
	}
	if ticker == nil {
		return shorts.Company{}, fmt.Errorf("%w: listing row for %q has no ticker", shorts.ErrCorruptRecord, *name)
	}
	if isin == nil {
		return shorts.Company{}, fmt.Errorf("%w: listing row for %q has no ISIN", shorts.ErrCorruptRecord, *name)
	}
	company := shorts.Company{Name: *name, Ticker: *ticker, ISIN: *isin}
	if fullName != nil {
		company.FullName = *fullName
	}
	if nif != nil {
		company.NIF = *nif
	}
	return company, nil
}

const activeSelect = `
	SELECT alive_positions.id, owner, weight, open_date, ticker
	FROM alive_positions INNER JOIN short_history ON alive_positions.id = short_history.id
`

// ActivePositions lists every alive position stored for a ticker.
func (s *Store) ActivePositions(ctx context.Context, ticker string) ([]shorts.StoredPosition, error) {
	ctx, span := tracer.Start(ctx, "ActivePositions")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	rows, err := s.pool.Query(ctx, activeSelect+`WHERE short_history.ticker = $1`, ticker)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()

	var positions []shorts.StoredPosition
	for rows.Next() {
		position, err := scanStoredPosition(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		positions = append(positions, position)
	}
	return positions, rows.Err()
}

// ActivePosition looks up the alive position a fund holds against a ticker.
// Returns nil when none is stored.
func (s *Store) ActivePosition(ctx context.Context, ticker string, owner string) (*shorts.StoredPosition, error) {
	ctx, span := tracer.Start(ctx, "ActivePosition")
	defer span.End()
	span.SetAttributes(
		attribute.String("ticker", ticker),
		attribute.String("owner", owner),
	)

	row := s.pool.QueryRow(
		ctx,
		activeSelect+`WHERE short_history.ticker = $1 AND short_history.owner = $2`,
		ticker, owner,
	)
	position, err := scanStoredPosition(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return &position, nil
}

func scanStoredPosition(row pgx.Row) (shorts.StoredPosition, error) {
	var id uuid.NullUUID
	var owner, ticker *string
	var weight *float64
	var openDate *time.Time

	if err := row.Scan(&id, &owner, &weight, &openDate, &ticker); err != nil {
		return shorts.StoredPosition{}, err
	}

	// a row missing any of these fields is corrupt, never coerce it into a
	// position with zero values. a missing id is different: the row is still
	// a readable position, it just cannot be re-keyed, so it surfaces as the
	// void identity and the reconciler reports it.
	if owner == nil {
		return shorts.StoredPosition{}, fmt.Errorf("%w: stored position %s has no owner", shorts.ErrCorruptRecord, id.UUID)
	}
	if weight == nil {
		return shorts.StoredPosition{}, fmt.Errorf("%w: stored position %s has no weight", shorts.ErrCorruptRecord, id.UUID)
	}
	if openDate == nil {
		return shorts.StoredPosition{}, fmt.Errorf("%w: stored position %s has no open date", shorts.ErrCorruptRecord, id.UUID)
	}
	if ticker == nil {
		return shorts.StoredPosition{}, fmt.Errorf("%w: stored position %s has no ticker", shorts.ErrCorruptRecord, id.UUID)
	}

	return shorts.StoredPosition{
		ID: id.UUID,
		ShortPosition: shorts.ShortPosition{
			Owner:  *owner,
			Weight: *weight,
			// timestamps are stored naive in UTC
			OpenDate: time.Date(
				openDate.Year(), openDate.Month(), openDate.Day(),
				openDate.Hour(), openDate.Minute(), openDate.Second(), openDate.Nanosecond(),
				time.UTC,
			),
			Ticker: *ticker,
		},
	}, nil
}

// Insert records a brand new position: a fresh identity in the active set and
// its history row, atomically.
func (s *Store) Insert(ctx context.Context, position shorts.ShortPosition) (uuid.UUID, error) {
	ctx, span := tracer.Start(ctx, "Insert")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", position.Ticker))

	id := uuid.New()
	err := s.writePosition(ctx, position, id, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO alive_positions VALUES ($1)`, id)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return uuid.Nil, err
	}
	return id, nil
}

// Rekey updates an existing position: the active row is re-pointed to a fresh
// identity and a new history row is appended under it, atomically. The old
// history row stays behind as the audit trail; the engine cannot update rows
// across the pair in place.
func (s *Store) Rekey(ctx context.Context, old uuid.UUID, position shorts.ShortPosition) (uuid.UUID, error) {
	ctx, span := tracer.Start(ctx, "Rekey")
	defer span.End()
	span.SetAttributes(
		attribute.String("ticker", position.Ticker),
		attribute.String("old_id", old.String()),
	)

	id := uuid.New()
	err := s.writePosition(ctx, position, id, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `UPDATE alive_positions SET id = $2 WHERE id = $1`, old, id)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return uuid.Nil, err
	}
	return id, nil
}

func (s *Store) writePosition(
	ctx context.Context,
	position shorts.ShortPosition,
	id uuid.UUID,
	writeActive func(ctx context.Context, tx pgx.Tx) error,
) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := writeActive(ctx, tx); err != nil {
		return err
	}
	_, err = tx.Exec(
		ctx,
		`INSERT INTO short_history (id, owner, weight, open_date, ticker) VALUES ($1, $2, $3, $4, $5)`,
		id, position.Owner, position.Weight, position.OpenDate.UTC(), position.Ticker,
	)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Retire removes a position from the active set by re-keying its row to the
// void identity. The engine cannot delete rows from tables that are not
// partitioned by time, and the history row must survive anyway.
func (s *Store) Retire(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "Retire")
	defer span.End()
	span.SetAttributes(attribute.String("id", id.String()))

	_, err := s.pool.Exec(ctx, `UPDATE alive_positions SET id = $2 WHERE id = $1`, id, shorts.VoidID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
