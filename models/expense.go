package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultPaymentMethod 默认支付方式
const DefaultPaymentMethod = "Cash"

// Expense 消费记录模型
type Expense struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        uint           `json:"user_id" gorm:"not null;index;index:idx_expenses_user_date,priority:1"`
	CategoryID    uint           `json:"category_id" gorm:"not null;index"`
	Amount        float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Description   string         `json:"description" gorm:"size:255;not null"`
	Date          time.Time      `json:"date" gorm:"not null;index:idx_expenses_user_date,priority:2,sort:desc"`
	PaymentMethod string         `json:"payment_method" gorm:"size:50;default:Cash"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
	User          User           `json:"-" gorm:"foreignKey:UserID"`
	Category      Category       `json:"-" gorm:"foreignKey:CategoryID"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// ExpenseInput 创建消费记录的入参
type ExpenseInput struct {
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	CategoryID    uint      `json:"category_id"`
	UserID        uint      `json:"user_id"`
	Date          time.Time `json:"date"`
	PaymentMethod string    `json:"payment_method"`
}

// Validate 校验消费记录数据，返回 字段名 -> 错误信息
func (in ExpenseInput) Validate() map[string]string {
	errs := make(map[string]string)

	if in.Amount == 0 {
		errs["amount"] = "amount is required"
	} else if in.Amount <= 0 {
		errs["amount"] = "Amount must be positive"
	}
	if strings.TrimSpace(in.Description) == "" {
		errs["description"] = "description is required"
	}
	if in.CategoryID == 0 {
		errs["category_id"] = "category_id is required"
	}
	if in.UserID == 0 {
		errs["user_id"] = "user_id is required"
	}
	if in.Date.IsZero() {
		errs["date"] = "date is required"
	}

	return errs
}

// NewExpense 按入参构造消费记录，支付方式为空时取默认值
func NewExpense(in ExpenseInput) Expense {
	method := in.PaymentMethod
	if method == "" {
		method = DefaultPaymentMethod
	}
	return Expense{
		UserID:        in.UserID,
		CategoryID:    in.CategoryID,
		Amount:        in.Amount,
		Description:   in.Description,
		Date:          in.Date,
		PaymentMethod: method,
	}
}
