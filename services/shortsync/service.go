package shortsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"shortwatch/lib/shorts"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("services/shortsync")

const defaultConcurrency = 4

// Store is the transactional surface the reconciler needs. Each call is one
// transaction; a call never spans more than one company.
type Store interface {
	StockListing(ctx context.Context) ([]shorts.Company, error)
	ActivePositions(ctx context.Context, ticker string) ([]shorts.StoredPosition, error)
	ActivePosition(ctx context.Context, ticker string, owner string) (*shorts.StoredPosition, error)
	Insert(ctx context.Context, position shorts.ShortPosition) (uuid.UUID, error)
	Rekey(ctx context.Context, old uuid.UUID, position shorts.ShortPosition) (uuid.UUID, error)
	Retire(ctx context.Context, id uuid.UUID) error
}

// Service keeps the stored active set in step with what the regulators
// currently disclose.
type Service struct {
	store       Store
	registry    *shorts.Registry
	concurrency int
}

type Options struct {
	Store    Store
	Registry *shorts.Registry
	// Concurrency bounds how many companies are fetched at once. The source
	// rate-limits aggressively, unbounded fan-out gets the job blocked.
	Concurrency int
}

func NewService(opts Options) Service {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return Service{
		store:       opts.Store,
		registry:    opts.Registry,
		concurrency: concurrency,
	}
}

// CompanyError is a failure scoped to one company. It never aborts the batch.
type CompanyError struct {
	Company shorts.Company
	Err     error
}

func (e CompanyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Company, e.Err)
}

func (e CompanyError) Unwrap() error {
	return e.Err
}

// Result of one sync run.
type Result struct {
	// Tickers whose active set changed, sorted.
	Changed []string
	// Per-company failures. The companies listed here were not reconciled
	// this run; everything else was.
	Failures []CompanyError
}

type syncOutcome struct {
	changed bool
	skipped bool
	err     error
}

// SyncAll reconciles every company in the directory. Only a directory read
// failure is fatal, anything that goes wrong for a single company is
// collected into the result and the batch moves on.
func (s Service) SyncAll(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "SyncAll")
	defer span.End()

	companies, err := s.store.StockListing(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, fmt.Errorf("read company directory: %w", err)
	}
	slog.DebugContext(ctx, "companies listed", "count", len(companies))

	// one result slot per company, merged after the pool drains, so the
	// workers never share mutable state
	outcomes := make([]syncOutcome, len(companies))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, company := range companies {
		i, company := i, company
		g.Go(func() error {
			outcomes[i] = s.syncOne(gctx, company)
			return nil
		})
	}
	// the workers only ever return nil, company failures live in their slot
	_ = g.Wait()

	var result Result
	for i, outcome := range outcomes {
		switch {
		case outcome.skipped:
		case outcome.err != nil:
			result.Failures = append(result.Failures, CompanyError{
				Company: companies[i],
				Err:     outcome.err,
			})
		case outcome.changed:
			result.Changed = append(result.Changed, companies[i].Ticker)
		}
	}
	sort.Strings(result.Changed)

	span.SetAttributes(
		attribute.Int("changed", len(result.Changed)),
		attribute.Int("failures", len(result.Failures)),
	)
	return result, nil
}

func (s Service) syncOne(ctx context.Context, company shorts.Company) syncOutcome {
	if company.NIF == "" {
		// the source only accepts a NIF; companies registered abroad are
		// expected to lack one and are not an error
		slog.DebugContext(ctx, "skipping company without NIF", "company", company.Name)
		return syncOutcome{skipped: true}
	}

	provider, err := s.registry.Lookup(company)
	if err != nil {
		slog.WarnContext(ctx, "no provider for company, skipping", "company", company.Name, "err", err)
		return syncOutcome{skipped: true}
	}

	changed, err := s.SyncCompany(ctx, provider, company)
	if errors.Is(err, shorts.ErrCorruptRecord) {
		// corruption in the store is a different incident than the source
		// being down, someone has to repair the table
		slog.ErrorContext(ctx, "stored data for company is corrupt", "company", company.Name, "err", err)
		return syncOutcome{err: err}
	}
	if err != nil {
		slog.ErrorContext(ctx, "company sync failed", "company", company.Name, "err", err)
		return syncOutcome{err: err}
	}
	return syncOutcome{changed: changed}
}

// SyncCompany fetches the current snapshot for one company and reconciles the
// stored active set against it. Reports whether anything changed.
func (s Service) SyncCompany(ctx context.Context, provider shorts.Provider, company shorts.Company) (bool, error) {
	ctx, span := tracer.Start(ctx, "SyncCompany")
	defer span.End()
	span.SetAttributes(
		attribute.String("company", company.Name),
		attribute.String("ticker", company.Ticker),
	)

	snapshot, err := provider.Positions(ctx, company, shorts.TimeFrame{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	stored, err := s.store.ActivePositions(ctx, company.Ticker)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	changed, err := s.reconcile(ctx, company, snapshot.Positions, stored)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	return changed, nil
}
