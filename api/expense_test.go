package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 类别归属检查
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id"}).
			AddRow(2, "Food & Dining", 1))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewExpenseHandler()
	router.POST("/expenses", setUserID(1), h.Create)

	body := `{"amount":42.50,"description":"Lunch","category_id":2,"date":"2024-01-15 12:30:00"}`
	req := httptest.NewRequest("POST", "/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 42.50, data["amount"])
	// 未指定支付方式时使用默认值
	assert.Equal(t, "Cash", data["payment_method"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_NegativeAmount(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewExpenseHandler()
	router.POST("/expenses", setUserID(1), h.Create)

	// 金额为负，不应触达数据库
	body := `{"amount":-5,"description":"Lunch","category_id":2,"date":"2024-01-15"}`
	req := httptest.NewRequest("POST", "/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	errs := resp["errors"].(map[string]interface{})
	assert.Equal(t, "Amount must be positive", errs["amount"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_CategoryNotOwned(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 类别属于其他用户
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id"}).
			AddRow(9, "Travel", 7))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewExpenseHandler()
	router.POST("/expenses", setUserID(1), h.Create)

	body := `{"amount":10,"description":"Taxi","category_id":9,"date":"2024-01-15"}`
	req := httptest.NewRequest("POST", "/expenses", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "无效的消费类别", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_List_WithFilters(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count.* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "description", "user_id", "category_id", "date"}).
			AddRow(1, 20.0, "Dinner", 1, 2, time.Date(2024, 3, 10, 19, 0, 0, 0, time.Local)).
			AddRow(2, 8.5, "Coffee", 1, 2, time.Date(2024, 3, 9, 9, 0, 0, 0, time.Local)))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewExpenseHandler()
	router.GET("/expenses", setUserID(1), h.List)

	req := httptest.NewRequest("GET", "/expenses?limit=2&category_id=2&start_date=2024-03-01&end_date=2024-03-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	// total 为筛选后的总数，不受分页窗口影响
	assert.Equal(t, float64(3), data["total"])
	assert.Len(t, data["items"], 2)
	assert.Equal(t, float64(2), data["limit"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Get_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{}))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewExpenseHandler()
	router.GET("/expenses/:id", setUserID(1), h.Get)

	req := httptest.NewRequest("GET", "/expenses/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Delete(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "user_id"}).
			AddRow(5, 10.0, 1))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewExpenseHandler()
	router.DELETE("/expenses/:id", setUserID(1), h.Delete)

	req := httptest.NewRequest("DELETE", "/expenses/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryHandler_ByCategory(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"category_id", "total", "count"}).
			AddRow(2, 120.5, 7).
			AddRow(3, 45.0, 2))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewSummaryHandler()
	router.GET("/summary/by-category", setUserID(1), h.ByCategory)

	req := httptest.NewRequest("GET", "/summary/by-category", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	require.Len(t, data, 2)
	first := data[0].(map[string]interface{})
	assert.Equal(t, float64(120.5), first["total"])
	assert.Equal(t, float64(7), first["count"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryHandler_ByMonth(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"month", "total", "count"}).
			AddRow(1, 15.0, 2).
			AddRow(3, 7.0, 1))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewSummaryHandler()
	router.GET("/summary/by-month", setUserID(1), h.ByMonth)

	req := httptest.NewRequest("GET", "/summary/by-month?year=2024", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	require.Len(t, data, 2)
	// 月份名称由月份序号推导
	assert.Equal(t, "January", data[0].(map[string]interface{})["month_name"])
	assert.Equal(t, "March", data[1].(map[string]interface{})["month_name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryHandler_ByMonth_InvalidYear(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewSummaryHandler()
	router.GET("/summary/by-month", setUserID(1), h.ByMonth)

	req := httptest.NewRequest("GET", "/summary/by-month?year=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryHandler_ByPaymentMethod(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"payment_method", "total", "count"}).
			AddRow("Cash", 60.0, 4).
			AddRow("Credit Card", 30.0, 1))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewSummaryHandler()
	router.GET("/summary/by-payment-method", setUserID(1), h.ByPaymentMethod)

	req := httptest.NewRequest("GET", "/summary/by-payment-method", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Equal(t, "Cash", data[0].(map[string]interface{})["payment_method"])
	require.NoError(t, mock.ExpectationsWereMet())
}
