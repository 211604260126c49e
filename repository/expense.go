package repository

import (
	"errors"
	"fmt"
	"time"

	"spendtrack/models"

	"gorm.io/gorm"
)

// expenseSortColumns 消费记录列表允许的排序字段
var expenseSortColumns = map[string]bool{
	"date":       true,
	"amount":     true,
	"created_at": true,
}

// ExpenseRepository 消费记录表仓库，含分组统计
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository 创建消费记录仓库
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// ExpensePage 消费记录分页结果
type ExpensePage struct {
	Items []models.Expense `json:"items"`
	Total int64            `json:"total"`
	Skip  int              `json:"skip"`
	Limit int              `json:"limit"`
}

// ExpenseFilter 列表筛选条件，时间范围两端均为闭区间
type ExpenseFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID uint
}

// FindByID 按 ID 查找消费记录，不存在时返回 (nil, nil)
func (r *ExpenseRepository) FindByID(id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find expense by id: %w", err)
	}
	return &expense, nil
}

// FindByUser 分页列出用户的消费记录，默认按日期降序。
// Total 为满足筛选条件的总数，与 skip/limit 窗口无关。
func (r *ExpenseRepository) FindByUser(userID uint, opts ListOptions, filter ExpenseFilter) (*ExpensePage, error) {
	// 未指定排序时默认按日期降序
	if opts.SortBy == "" && opts.SortDir == 0 {
		opts.SortDir = SortDesc
	}
	opts.normalize(50, 100, "date")

	query := r.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	query = applyDateRange(query, filter.StartDate, filter.EndDate)
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count expenses: %w", err)
	}

	var expenses []models.Expense
	if err := query.
		Order(opts.orderClause(expenseSortColumns, "date")).
		Offset(opts.Skip).
		Limit(opts.Limit).
		Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	return &ExpensePage{Items: expenses, Total: total, Skip: opts.Skip, Limit: opts.Limit}, nil
}

// Create 校验并创建消费记录。校验失败不产生写入。
// category_id/user_id 的引用存在性由调用方保证。
func (r *ExpenseRepository) Create(in models.ExpenseInput) (*models.Expense, map[string]string, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, errs, nil
	}

	expense := models.NewExpense(in)
	if err := r.db.Create(&expense).Error; err != nil {
		return nil, nil, fmt.Errorf("create expense: %w", err)
	}
	return &expense, nil, nil
}

// ExpenseUpdate 消费记录部分更新，nil 字段不修改
type ExpenseUpdate struct {
	Amount        *float64
	Description   *string
	CategoryID    *uint
	Date          *time.Time
	PaymentMethod *string
}

// Update 合并给定字段并刷新 updated_at。
// 记录不存在返回 ErrNotFound，无字段可更新返回 ErrNoChanges。
func (r *ExpenseRepository) Update(id uint, in ExpenseUpdate) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}

	updates := make(map[string]interface{})
	if in.Amount != nil {
		updates["amount"] = *in.Amount
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.CategoryID != nil {
		updates["category_id"] = *in.CategoryID
	}
	if in.Date != nil {
		updates["date"] = *in.Date
	}
	if in.PaymentMethod != nil {
		updates["payment_method"] = *in.PaymentMethod
	}
	if len(updates) == 0 {
		return nil, ErrNoChanges
	}

	if err := r.db.Model(&expense).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	if err := r.db.First(&expense, id).Error; err != nil {
		return nil, fmt.Errorf("reload expense: %w", err)
	}
	return &expense, nil
}

// Delete 按 ID 删除消费记录，幂等，返回是否确实删除了记录
func (r *ExpenseRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Expense{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete expense: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// applyDateRange 追加闭区间日期条件
func applyDateRange(query *gorm.DB, start, end *time.Time) *gorm.DB {
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}
	return query
}
