package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewCategoryHandler()
	router.POST("/categories", setUserID(1), h.Create)

	body := `{"name":"Groceries","description":"Weekly groceries"}`
	req := httptest.NewRequest("POST", "/categories", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 201, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Groceries", data["name"])
	// 未指定时应用默认颜色和图标
	assert.Equal(t, "#3498db", data["color"])
	assert.Equal(t, "tag", data["icon"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Create_DuplicateName(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `categories`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewCategoryHandler()
	router.POST("/categories", setUserID(1), h.Create)

	body := `{"name":"Groceries"}`
	req := httptest.NewRequest("POST", "/categories", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	errs := resp["errors"].(map[string]interface{})
	assert.Equal(t, "Category with this name already exists for this user", errs["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Get_OtherUsersCategory(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 类别属于用户 2，请求方是用户 1
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id"}).
			AddRow(1, "Groceries", 2))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewCategoryHandler()
	router.GET("/categories/:id", setUserID(1), h.Get)

	req := httptest.NewRequest("GET", "/categories/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// 不能暴露他人类别的存在
	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Delete_InUse(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// 归属检查
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id"}).
			AddRow(3, "Food & Dining", 1))

	// 事务内引用检查：仍有消费记录引用
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count.* FROM `expenses`").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectRollback()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewCategoryHandler()
	router.DELETE("/categories/:id", setUserID(1), h.Delete)

	req := httptest.NewRequest("DELETE", "/categories/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "类别下存在消费记录，不能删除", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_Delete_OK(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id"}).
			AddRow(3, "Travel", 1))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count.* FROM `expenses`").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// 软删除生成 UPDATE
	mock.ExpectExec("UPDATE `categories`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewCategoryHandler()
	router.DELETE("/categories/:id", setUserID(1), h.Delete)

	req := httptest.NewRequest("DELETE", "/categories/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count.* FROM `categories`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT .* FROM `categories`").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id"}).
			AddRow(1, "Entertainment", 1).
			AddRow(2, "Food & Dining", 1))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewCategoryHandler()
	router.GET("/categories", setUserID(1), h.List)

	req := httptest.NewRequest("GET", "/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
	assert.Len(t, data["items"], 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
