package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockPaymentRepository(t *testing.T) (*GormPaymentRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPaymentRepository(gormDB), mock, mockDB
}

func TestGormPaymentRepository_SumByInvoice(t *testing.T) {
	t.Run("sums recorded payments", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		rows := sqlmock.NewRows([]string{"total"}).AddRow("75.50")

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) AS total FROM "payments" WHERE invoice_id = \$1`).
			WithArgs(invoiceID).
			WillReturnRows(rows)

		total, err := repo.SumByInvoice(context.Background(), invoiceID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("75.50")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero with no payments", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		rows := sqlmock.NewRows([]string{"total"}).AddRow("0")

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) AS total FROM "payments" WHERE invoice_id = \$1`).
			WithArgs(invoiceID).
			WillReturnRows(rows)

		total, err := repo.SumByInvoice(context.Background(), invoiceID)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentRepository_UnlinkInvoice(t *testing.T) {
	repo, mock, mockDB := newMockPaymentRepository(t)
	defer mockDB.Close()

	invoiceID := uuid.New()

	mock.ExpectExec(`UPDATE "payments" SET "invoice_id"=\$1,"updated_at"=\$2 WHERE invoice_id = \$3`).
		WithArgs(nil, sqlmock.AnyArg(), invoiceID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.UnlinkInvoice(context.Background(), invoiceID)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
