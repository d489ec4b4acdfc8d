package deal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/harborcre/api-brokerage/internal/commission"
	"github.com/harborcre/api-brokerage/internal/payment"
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

func TestAllocateSplitsReconcilesPerBroker(t *testing.T) {
	b := commission.Calculate(commission.Inputs{FlatFee: 100})
	require.Equal(t, 100.0, b.AGCI)

	splits := []commission.Split{
		{BrokerID: 1, SplitPercent: 0.5},
		{BrokerID: 2, SplitPercent: 0.5},
	}
	parts := allocateSplits(b, splits, 3)

	// each broker gets exactly half the AGCI back, with the odd cent
	// landing on the last installment
	assert.Equal(t, []float64{16.67, 16.67, 16.66}, parts[1])
	assert.Equal(t, []float64{16.67, 16.67, 16.66}, parts[2])
	for brokerID, p := range parts {
		var sum float64
		for _, v := range p {
			sum += v
		}
		assert.InDelta(t, 50.00, sum, 1e-9, "broker %d", brokerID)
	}
}

func TestAllocateSplitsUnevenPercents(t *testing.T) {
	b := commission.Calculate(commission.Inputs{
		DealValue:          1_000_000,
		FeePercent:         0.03,
		ReferralFeePercent: 0.1,
		HousePercent:       0.2,
	})
	require.Equal(t, 21600.0, b.AGCI)

	splits := []commission.Split{
		{BrokerID: 4, SplitPercent: 0.6},
		{BrokerID: 5, SplitPercent: 0.4},
	}
	parts := allocateSplits(b, splits, 7)

	totals := map[uint]float64{4: 12960.00, 5: 8640.00}
	for brokerID, want := range totals {
		require.Len(t, parts[brokerID], 7)
		var sum float64
		for _, v := range parts[brokerID] {
			sum += v
		}
		assert.InDelta(t, want, sum, 1e-9, "broker %d", brokerID)
	}
}

func TestGeneratePaymentsReplacesOnlyOutstanding(t *testing.T) {
	gdb, mock := newMockDB(t)
	h := NewHandler(gdb)

	dealRows := sqlmock.NewRows([]string{
		"id", "name", "client_id", "broker_id", "stage",
		"flat_fee", "number_of_payments",
	}).AddRow(5, "Lease at Elm", 1, 3, StageBooked, 100.0, 1)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "deals"`)).
		WillReturnRows(dealRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "commission_splits"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "deal_id", "broker_id", "split_percent"}).
			AddRow(1, 5, 3, 0.5))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "deal_id", "payment_number", "amount", "status"}).
			AddRow(9, 5, 1, 100.0, payment.StatusReceived))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "payment_splits"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_id", "broker_id", "amount"}))

	mock.ExpectBegin()
	// only non-received payments are cleared for regeneration
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "payments"`)).
		WithArgs(5, payment.StatusReceived).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payment_splits" SET`)).
		WithArgs(sqlmock.AnyArg(), 10, 11).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
		WithArgs(sqlmock.AnyArg(), 10, 11).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "payments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12).AddRow(13).AddRow(14))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "payment_splits"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21).AddRow(22).AddRow(23))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "deals" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := bytes.NewBufferString(`{"firstPaymentDate":"2026-09-01","numberOfPayments":3}`)
	req := httptest.NewRequest(http.MethodPost, "/deals/5/payments/generate", body)
	req = mux.SetURLVars(req, map[string]string{"id": "5"})
	rec := httptest.NewRecorder()

	h.GeneratePayments(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got []payment.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, []float64{33.33, 33.33, 33.34},
		[]float64{got[0].Amount, got[1].Amount, got[2].Amount})

	var brokerTotal float64
	for _, p := range got {
		require.Len(t, p.Splits, 1)
		brokerTotal += p.Splits[0].Amount
	}
	assert.InDelta(t, 50.00, brokerTotal, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}
