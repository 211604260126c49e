package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHandler_ExportCSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "category_id", "category_name", "description", "payment_method", "date", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, 1, 99.99, 2, "Food & Dining", "午餐", "Cash", time.Now(), time.Now(), time.Now(), nil))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/export/csv", setUserID(1), NewExportHandler().ExportCSV)

	req := httptest.NewRequest("GET", "/export/csv?start_time=2024-01-01&end_time=2024-01-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "ID")
	assert.Contains(t, w.Body.String(), "金额")
	assert.Contains(t, w.Body.String(), "Food & Dining")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportCSV_MissingParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/export/csv", setUserID(1), NewExportHandler().ExportCSV)

	req := httptest.NewRequest("GET", "/export/csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestExportHandler_ExportJSON(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "category_id", "category_name", "description", "date"}).
			AddRow(1, 1, 20.0, 2, "Transportation", "Taxi", time.Now()).
			AddRow(2, 1, 15.5, 3, "Entertainment", "Movie", time.Now()))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/export/json", setUserID(1), NewExportHandler().ExportJSON)

	req := httptest.NewRequest("GET", "/export/json?start_time=2024-01-01&end_time=2024-12-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"total_count":2`)
	assert.Contains(t, w.Body.String(), `"total_amount":35.5`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportHandler_ExportExcel(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "category_id", "category_name", "description", "date"}).
			AddRow(1, 1, 50.0, 2, "Housing", "Rent share", time.Now()))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/export/excel", setUserID(1), NewExportHandler().ExportExcel)

	req := httptest.NewRequest("GET", "/export/excel?start_time=2024-01-01&end_time=2024-12-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotEmpty(t, w.Body.Bytes())
	require.NoError(t, mock.ExpectationsWereMet())
}
