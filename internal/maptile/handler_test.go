package maptile

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

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

func propertyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "latitude", "longitude", "property_type", "available_sqft", "rent_psf"})
}

func viewportRequest(minLat, maxLat, minLng, maxLng float64) *http.Request {
	url := fmt.Sprintf("/map/properties?minLat=%f&maxLat=%f&minLng=%f&maxLng=%f",
		minLat, maxLat, minLng, maxLng)
	return httptest.NewRequest(http.MethodGet, url, nil)
}

func TestViewportOversizedBypassesTiles(t *testing.T) {
	gdb, mock := newMockDB(t)
	h := NewHandler(gdb, NewCache(nil, 0)) // no redis: every tile would miss

	// 10x10 degrees expands to far more than MaxTiles
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "properties"`)).
		WillReturnRows(propertyRows().
			AddRow(1, "Midtown Plaza", 33.78, -84.38, "retail", 12000.0, 28.5))

	rec := httptest.NewRecorder()
	h.Viewport(rec, viewportRequest(30, 40, -90, -80))

	require.Equal(t, http.StatusOK, rec.Code)
	var pins []Pin
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pins))
	require.Len(t, pins, 1)
	assert.Equal(t, "Midtown Plaza", pins[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViewportClipsPinsToBox(t *testing.T) {
	gdb, mock := newMockDB(t)
	h := NewHandler(gdb, NewCache(nil, 0))

	tile := At(33.749, -84.388)
	minLat, maxLat, minLng, maxLng := tile.Bounds()
	// the viewport is the left half of one tile
	vMaxLng := minLng + (maxLng-minLng)/2

	inside := minLng + 0.001
	outside := vMaxLng + 0.001 // in tile, not in viewport
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "properties"`)).
		WillReturnRows(propertyRows().
			AddRow(1, "In Box", minLat+0.001, inside, "office", 0.0, 0.0).
			AddRow(2, "Out Of Box", minLat+0.001, outside, "office", 0.0, 0.0))

	rec := httptest.NewRecorder()
	h.Viewport(rec, viewportRequest(minLat+1e-6, maxLat-1e-6, minLng+1e-6, vMaxLng))

	require.Equal(t, http.StatusOK, rec.Code)
	var pins []Pin
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pins))
	require.Len(t, pins, 1)
	assert.Equal(t, "In Box", pins[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViewportRejectsBadBounds(t *testing.T) {
	gdb, _ := newMockDB(t)
	h := NewHandler(gdb, NewCache(nil, 0))

	rec := httptest.NewRecorder()
	h.Viewport(rec, viewportRequest(40, 30, -90, -80)) // inverted lat
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Viewport(rec, httptest.NewRequest(http.MethodGet, "/map/properties?minLat=1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
