package broker

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/harborcre/api-brokerage/internal/utils"
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

func flaggedBrokerRows(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "must_reset_password", "is_admin"}).
		AddRow(1, "jane@harborcre.com", hash, true, false)
}

func TestLoginRejectsWrongPasswordOnFlaggedAccount(t *testing.T) {
	gdb, mock := newMockDB(t)
	h := NewHandler(gdb)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "brokers"`)).
		WillReturnRows(flaggedBrokerRows(t, "current-secret"))

	body := bytes.NewBufferString(`{"email":"jane@harborcre.com","password":"guess"}`)
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", body))

	// no temp password leaks to a caller who never proved the current one
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "tempPassword")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginIssuesTempPasswordAfterVerification(t *testing.T) {
	gdb, mock := newMockDB(t)
	h := NewHandler(gdb)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "brokers"`)).
		WillReturnRows(flaggedBrokerRows(t, "current-secret"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "brokers" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := bytes.NewBufferString(`{"email":"jane@harborcre.com","password":"current-secret"}`)
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", body))

	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "password reset required", resp["message"])
	assert.NotEmpty(t, resp["tempPassword"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
