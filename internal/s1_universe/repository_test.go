package s1_universe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Candidates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM data.securities s\s+LEFT JOIN data.daily_prices p`).
		WithArgs(date).
		WillReturnRows(pgxmock.NewRows([]string{"symbol", "has_fundamentals", "volume", "close_price", "dollar_volume"}).
			AddRow("AAPL", true, int64(1000), 170.5, 170500.0).
			AddRow("ZZZ", false, int64(0), 0.0, 0.0))

	repo := NewRepository(mock)
	pool, err := repo.Candidates(context.Background(), date)
	require.NoError(t, err)

	require.Len(t, pool, 2)
	assert.Equal(t, "AAPL", pool[0].Symbol)
	assert.True(t, pool[0].HasFundamentalData)
	assert.Equal(t, int64(1000), pool[0].Volume)
	assert.Equal(t, 170500.0, pool[0].Liquidity())
	assert.False(t, pool[1].HasFundamentalData)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CandidatesQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM data.securities`).
		WithArgs(date).
		WillReturnError(errors.New("connection reset"))

	_, err = NewRepository(mock).Candidates(context.Background(), date)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query candidates")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FineRecords(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	symbols := []string{"AAPL", "MSFT"}
	listed := time.Date(1980, 12, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`LEFT JOIN LATERAL`).
		WithArgs(date, symbols).
		WillReturnRows(pgxmock.NewRows([]string{"symbol", "market_cap", "industry_code", "listing_date", "country_id", "exchange_id"}).
			AddRow("AAPL", 2.8e12, "311", listed, "USA", "NAS").
			AddRow("MSFT", 3.1e12, "311", listed, "USA", "NAS"))

	records, err := NewRepository(mock).FineRecords(context.Background(), date, symbols)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "AAPL", records[0].Symbol)
	assert.Equal(t, 2.8e12, records[0].MarketCap)
	assert.Equal(t, "311", records[0].Category)
	assert.True(t, records[0].ListingDate.Equal(listed))
	assert.Equal(t, "NAS", records[1].Exchange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FineRecordsNoSymbols(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	records, err := NewRepository(mock).FineRecords(context.Background(), time.Now(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}
