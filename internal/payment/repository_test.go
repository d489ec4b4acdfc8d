package payment

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gdb, mock
}

func TestMarkOverdueFlipsPastPending(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.MarkOverdue(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByDealOrdersByPaymentNumber(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	rows := sqlmock.NewRows([]string{"id", "deal_id", "payment_number", "amount", "status"}).
		AddRow(1, 7, 1, 500.0, StatusPending).
		AddRow(2, 7, 2, 500.0, StatusPending)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(rows)
	// preload of the splits for both payments
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payment_splits"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_id", "broker_id", "amount"}))

	payments, err := repo.FindByDeal(7)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, 1, payments[0].PaymentNumber)
	assert.Equal(t, 2, payments[1].PaymentNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenDealCountExcludesFinishedStages(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "deals"`)).
		WithArgs(3, "ClosedPaid", "Lost").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.OpenDealCount(3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrokerSplitsFiltersByStatus(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	rows := sqlmock.NewRows([]string{"id", "payment_id", "broker_id", "amount"}).
		AddRow(1, 10, 3, 1200.50).
		AddRow(2, 11, 3, 799.50)
	mock.ExpectQuery(`SELECT(.+)FROM "payment_splits" JOIN payments ON payments.id = payment_splits.payment_id`).
		WillReturnRows(rows)

	splits, err := repo.BrokerSplits(3, []string{StatusReceived})
	require.NoError(t, err)
	require.Len(t, splits, 2)
	assert.Equal(t, 1200.50, splits[0].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
