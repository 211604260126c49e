package repository

import (
	"fmt"
	"time"

	"spendtrack/models"
)

// CategorySummary 按类别分组的汇总项
type CategorySummary struct {
	CategoryID uint    `json:"category_id"`
	Total      float64 `json:"total"`
	Count      int64   `json:"count"`
}

// MonthSummary 按月份分组的汇总项，仅包含有记录的月份
type MonthSummary struct {
	Month     int     `json:"month"`
	MonthName string  `json:"month_name" gorm:"-"`
	Total     float64 `json:"total"`
	Count     int64   `json:"count"`
}

// PaymentMethodSummary 按支付方式分组的汇总项
type PaymentMethodSummary struct {
	PaymentMethod string  `json:"payment_method"`
	Total         float64 `json:"total"`
	Count         int64   `json:"count"`
}

// SummaryByCategory 按类别统计用户消费，金额合计降序
func (r *ExpenseRepository) SummaryByCategory(userID uint, start, end *time.Time) ([]CategorySummary, error) {
	query := r.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	query = applyDateRange(query, start, end)

	var rows []CategorySummary
	if err := query.
		Select("category_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("category_id").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("summary by category: %w", err)
	}
	return rows, nil
}

// SummaryByMonth 按自然月统计某年的用户消费，月份升序。
// year 为 0 时取当前年份；统计窗口为该年 1月1日 至 12月31日 23:59:59（含）。
func (r *ExpenseRepository) SummaryByMonth(userID uint, year int) ([]MonthSummary, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(year, 12, 31, 23, 59, 59, 0, time.Local)

	var rows []MonthSummary
	if err := r.db.Model(&models.Expense{}).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Select("MONTH(date) AS month, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("MONTH(date)").
		Order("month ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("summary by month: %w", err)
	}

	// 补充月份的英文名
	for i := range rows {
		if rows[i].Month >= 1 && rows[i].Month <= 12 {
			rows[i].MonthName = time.Month(rows[i].Month).String()
		}
	}
	return rows, nil
}

// SummaryByPaymentMethod 按支付方式统计用户消费，金额合计降序
func (r *ExpenseRepository) SummaryByPaymentMethod(userID uint, start, end *time.Time) ([]PaymentMethodSummary, error) {
	query := r.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	query = applyDateRange(query, start, end)

	var rows []PaymentMethodSummary
	if err := query.
		Select("payment_method, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("payment_method").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("summary by payment method: %w", err)
	}
	return rows, nil
}
