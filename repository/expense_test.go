package repository

import (
	"testing"
	"time"

	"spendtrack/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expenseColumns() []string {
	return []string{"id", "user_id", "category_id", "amount", "description", "date", "payment_method", "created_at", "updated_at", "deleted_at"}
}

func TestExpenseRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExpenseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	in := models.ExpenseInput{
		Amount:      99.99,
		Description: "午餐",
		CategoryID:  2,
		UserID:      1,
		Date:        time.Date(2024, 1, 15, 12, 30, 0, 0, time.Local),
	}
	expense, fieldErrs, err := repo.Create(in)
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	require.NotNil(t, expense)

	// 返回的金额与入参一致，未指定支付方式时取默认值
	assert.Equal(t, 99.99, expense.Amount)
	assert.Equal(t, models.DefaultPaymentMethod, expense.PaymentMethod)
	assert.Equal(t, uint(1), expense.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_Create_InvalidAmount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExpenseRepository(db)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)

	// 负数金额
	expense, fieldErrs, err := repo.Create(models.ExpenseInput{
		Amount: -10, Description: "x", CategoryID: 1, UserID: 1, Date: date,
	})
	require.NoError(t, err)
	assert.Nil(t, expense)
	assert.Equal(t, "Amount must be positive", fieldErrs["amount"])

	// 零金额视为缺失
	_, fieldErrs, err = repo.Create(models.ExpenseInput{
		Amount: 0, Description: "x", CategoryID: 1, UserID: 1, Date: date,
	})
	require.NoError(t, err)
	assert.Contains(t, fieldErrs, "amount")

	// 校验失败不应有任何写入
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExpenseRepository(db)

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns()))

	expense, err := repo.FindByID(999)
	require.NoError(t, err)
	assert.Nil(t, expense, "不存在的记录返回 nil 而非错误")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_FindByUser_Pagination(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExpenseRepository(db)

	now := time.Now()

	// 总数独立于窗口
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(5))
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns()).
			AddRow(3, 1, 2, 15.0, "groceries", now, "Cash", now, now, nil).
			AddRow(4, 1, 2, 7.5, "bus", now, "Card", now, now, nil))

	page, err := repo.FindByUser(1, ListOptions{Skip: 2, Limit: 2}, ExpenseFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(5), page.Total, "total 不受 skip/limit 影响")
	assert.Equal(t, 2, page.Skip)
	assert.Equal(t, 2, page.Limit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExpenseRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns()).
			AddRow(1, 1, 2, 10.0, "old", now, "Cash", now, now, nil))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns()).
			AddRow(1, 1, 2, 20.0, "new", now, "Cash", now, now, nil))

	amount := 20.0
	desc := "new"
	expense, err := repo.Update(1, ExpenseUpdate{Amount: &amount, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, 20.0, expense.Amount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExpenseRepository(db)

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns()))

	amount := 20.0
	_, err := repo.Update(42, ExpenseUpdate{Amount: &amount})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_Update_NoChanges(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExpenseRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns()).
			AddRow(1, 1, 2, 10.0, "x", now, "Cash", now, now, nil))

	// 空补丁与记录不存在是两种不同的结果
	_, err := repo.Update(1, ExpenseUpdate{})
	assert.ErrorIs(t, err, ErrNoChanges)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExpenseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.Delete(1)
	require.NoError(t, err)
	assert.True(t, deleted)

	// 再次删除同一 ID：无记录受影响，幂等返回 false
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err = repo.Delete(1)
	require.NoError(t, err)
	assert.False(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}
