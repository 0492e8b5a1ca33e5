package postgres

import (
	"context"
	"testing"
	"time"

	"donation-matching-backend/internal/domain"
	"donation-matching-backend/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuoteRepository(db)

	q := &domain.Quote{
		DonationID:       5,
		UnitPrice:        1000,
		Quantity:         50,
		SupplyAmount:     50000,
		CommissionRate:   0.1,
		CommissionAmount: 5000,
		VATAmount:        5000,
		TotalAmount:      60000,
		Status:           domain.QuoteStatusSent,
	}

	now := time.Now()
	mock.ExpectQuery("INSERT INTO quotes").
		WithArgs(int32(5), nil, int64(1000), int32(50), int64(50000), 0.1, int64(5000), int64(5000), int64(60000), int64(0),
			nil, nil, domain.QuoteStatusSent, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(3, now, now))

	require.NoError(t, repo.Create(context.Background(), q))
	assert.Equal(t, int32(3), q.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuoteRepository(db)
	now := time.Now()

	cols := []string{"id", "donation_id", "match_id", "unit_price", "quantity", "supply_amount", "commission_rate", "commission_amount",
		"vat_amount", "total_amount", "logistics_cost", "pickup_date", "pickup_time", "status",
		"rejection_reason", "responded_at", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT (.+) FROM quotes WHERE id = \$1`).
		WithArgs(int32(3)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(3, 5, 12, 1000, 50, 50000, 0.1, 5000, 5000, 60000, 30000, "2025-07-02", "10:00", "sent", "", nil, now, now))

	q, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, q.MatchID)
	assert.Equal(t, int32(12), *q.MatchID)
	assert.Equal(t, int64(60000), q.TotalAmount)
	assert.Equal(t, "2025-07-02", q.PickupDate)
}

func TestQuoteRepository_Update_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuoteRepository(db)

	mock.ExpectExec("UPDATE quotes SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Quote{ID: 77, Status: domain.QuoteStatusAccepted})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
