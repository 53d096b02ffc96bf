package s1_universe

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/aegis-universe/internal/contracts"
)

// Querier is the subset of pgxpool.Pool the repository needs
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository reads the per-cycle record sets from PostgreSQL.
// It implements Feed.
type Repository struct {
	db Querier
}

var _ Feed = (*Repository)(nil)

// NewRepository creates a new Repository instance
func NewRepository(db Querier) *Repository {
	return &Repository{db: db}
}

const candidatesQuery = `
		SELECT
			s.symbol,
			s.has_fundamentals,
			COALESCE(p.volume, 0),
			COALESCE(p.close_price, 0),
			COALESCE(p.dollar_volume, 0)
		FROM data.securities s
		LEFT JOIN data.daily_prices p
			ON p.symbol = s.symbol AND p.trade_date = $1::date
		WHERE s.status = 'active'
		ORDER BY s.symbol
	`

// Candidates returns the full candidate pool for date, ordered by symbol.
// The ordering makes coarse tie-breaks reproducible.
func (r *Repository) Candidates(ctx context.Context, date time.Time) ([]contracts.CandidateRecord, error) {
	rows, err := r.db.Query(ctx, candidatesQuery, date)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	pool := make([]contracts.CandidateRecord, 0)
	for rows.Next() {
		var c contracts.CandidateRecord
		if err := rows.Scan(
			&c.Symbol,
			&c.HasFundamentalData,
			&c.Volume,
			&c.Price,
			&c.DollarVolume,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		pool = append(pool, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return pool, nil
}

// Note: 시가총액은 date 이전 가장 최근 값을 사용
const fineRecordsQuery = `
		SELECT
			s.symbol,
			COALESCE(mc.market_cap, 0),
			COALESCE(s.industry_code, ''),
			s.listing_date,
			COALESCE(s.country_id, ''),
			COALESCE(s.exchange_id, '')
		FROM data.securities s
		LEFT JOIN LATERAL (
			SELECT market_cap FROM data.market_cap
			WHERE symbol = s.symbol AND trade_date <= $1::date
			ORDER BY trade_date DESC LIMIT 1
		) mc ON TRUE
		WHERE s.symbol = ANY($2) AND s.listing_date IS NOT NULL
		ORDER BY s.symbol
	`

// FineRecords returns fundamental records for symbols, ordered by symbol
func (r *Repository) FineRecords(ctx context.Context, date time.Time, symbols []string) ([]contracts.FineRecord, error) {
	if len(symbols) == 0 {
		return []contracts.FineRecord{}, nil
	}

	rows, err := r.db.Query(ctx, fineRecordsQuery, date, symbols)
	if err != nil {
		return nil, fmt.Errorf("query fine records: %w", err)
	}
	defer rows.Close()

	records := make([]contracts.FineRecord, 0, len(symbols))
	for rows.Next() {
		var f contracts.FineRecord
		if err := rows.Scan(
			&f.Symbol,
			&f.MarketCap,
			&f.Category,
			&f.ListingDate,
			&f.CountryID,
			&f.Exchange,
		); err != nil {
			return nil, fmt.Errorf("scan fine record: %w", err)
		}
		records = append(records, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fine records: %w", err)
	}

	return records, nil
}
