package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// 类别默认外观
const (
	DefaultCategoryColor = "#3498db"
	DefaultCategoryIcon  = "tag"
)

// Category 消费类别模型，(name, user_id) 联合唯一
type Category struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:50;not null;uniqueIndex:idx_categories_name_user"`
	UserID      uint           `json:"user_id" gorm:"not null;index;uniqueIndex:idx_categories_name_user"`
	Description string         `json:"description" gorm:"size:255"`
	Color       string         `json:"color" gorm:"size:20;default:#3498db"` // 颜色代码，如 #3498db
	Icon        string         `json:"icon" gorm:"size:50;default:tag"`      // 图标标识，如 tag
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (Category) TableName() string {
	return "categories"
}

// CategoryInput 创建类别的入参
type CategoryInput struct {
	Name        string `json:"name"`
	UserID      uint   `json:"user_id"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// Validate 校验类别数据，返回 字段名 -> 错误信息
func (in CategoryInput) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	} else if len(in.Name) < 2 {
		errs["name"] = "Name must be at least 2 characters long"
	}
	if in.UserID == 0 {
		errs["user_id"] = "user_id is required"
	}

	return errs
}

// NewCategory 按入参构造类别，空的外观字段取默认值
func NewCategory(in CategoryInput) Category {
	color := in.Color
	if color == "" {
		color = DefaultCategoryColor
	}
	icon := in.Icon
	if icon == "" {
		icon = DefaultCategoryIcon
	}
	return Category{
		Name:        in.Name,
		UserID:      in.UserID,
		Description: in.Description,
		Color:       color,
		Icon:        icon,
	}
}
