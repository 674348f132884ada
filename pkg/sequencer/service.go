// Package sequencer assigns document numbers: a fixed serie prefix
// plus a sequential correlative drawn from the database. Numbers are
// assigned once at creation and never reassigned.
package sequencer

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

// Strategy defines the correlative allocation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every number.
	// Guarantees sequential numbers without gaps.
	// Suitable for fiscal series (invoices, credit notes).
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Much faster, but may produce gaps if the application restarts.
	// Suitable for internal series (drafts, transfers).
	StrategyCached
)

// Options configuration for correlative allocation.
type Options struct {
	Strategy Strategy
	// RangeSize is the number of correlatives to allocate at once in
	// Cached strategy. Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service allocates correlatives per serie.
type Service struct {
	querier Querier

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a sequencer backed by the given querier (usually a pool:
// allocation intentionally runs outside business transactions so a
// rolled-back posting cannot block a serie).
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// Next returns the next correlative for a serie.
func (s *Service) Next(ctx context.Context, serie string, opts *Options) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("sequencer service is not initialized")
	}
	if serie == "" {
		return 0, fmt.Errorf("serie is required")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	switch opts.Strategy {
	case StrategyCached:
		return s.nextCached(ctx, serie, opts)
	default:
		return s.nextStrict(ctx, serie)
	}
}

// nextStrict fetches the next correlative directly from the database
// using UPSERT + RETURNING.
func (s *Service) nextStrict(ctx context.Context, serie string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (serie, current_val)
        VALUES ($1, 1)
        ON CONFLICT (serie) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, serie).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("next correlative: %w", err)
	}
	return num, nil
}

// nextCached serves correlatives from memory, refilling a range from
// the database when exhausted.
func (s *Service) nextCached(ctx context.Context, serie string, opts *Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, exists := s.ranges[serie]
	if !exists {
		rng = &cachedRange{}
		s.ranges[serie] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		// current_val in sys_sequences is the last value handed out.
		// Bumping it by size reserves (newMax-size, newMax].
		var newMax int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO sys_sequences (serie, current_val)
            VALUES ($1, $2)
            ON CONFLICT (serie) DO UPDATE SET current_val = sys_sequences.current_val + $2
            RETURNING current_val
		`, serie, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNext forces the serie counter to a value (migration tooling).
func (s *Service) SetNext(ctx context.Context, serie string, value int64) error {
	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (serie, current_val)
		VALUES ($1, $2)
		ON CONFLICT (serie) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, serie, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, serie)
	s.cacheMu.Unlock()

	return err
}

// Format renders the display number for a serie + correlative.
func Format(serie string, correlative int64) string {
	return fmt.Sprintf("%s-%d", serie, correlative)
}
