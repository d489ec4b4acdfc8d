package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborcre/api-brokerage/internal/auth"
)

func TestSummaryIncludesOpenDeals(t *testing.T) {
	gdb, mock := newMockDB(t)
	h := NewHandler(gdb)

	splitCols := []string{"id", "payment_id", "broker_id", "amount"}
	mock.ExpectQuery(`SELECT(.+)FROM "payment_splits" JOIN payments ON payments.id = payment_splits.payment_id`).
		WillReturnRows(sqlmock.NewRows(splitCols).AddRow(1, 10, 3, 1200.50))
	mock.ExpectQuery(`SELECT(.+)FROM "payment_splits" JOIN payments ON payments.id = payment_splits.payment_id`).
		WillReturnRows(sqlmock.NewRows(splitCols).
			AddRow(2, 11, 3, 799.50).
			AddRow(3, 12, 3, 500.00))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "deals"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	req := httptest.NewRequest(http.MethodGet, "/brokers/3/summary", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "3"})
	req = req.WithContext(context.WithValue(req.Context(), auth.CtxBrokerID, uint(3)))
	rec := httptest.NewRecorder()

	h.Summary(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got BrokerSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1200.50, got.Earned)
	assert.Equal(t, 1299.50, got.Projected)
	assert.Equal(t, 1, got.ReceivedPayments)
	assert.Equal(t, 2, got.OpenPayments)
	assert.Equal(t, int64(2), got.OpenDeals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryRejectsOtherBroker(t *testing.T) {
	gdb, _ := newMockDB(t)
	h := NewHandler(gdb)

	req := httptest.NewRequest(http.MethodGet, "/brokers/3/summary", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "3"})
	req = req.WithContext(context.WithValue(req.Context(), auth.CtxBrokerID, uint(7)))
	rec := httptest.NewRecorder()

	h.Summary(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
