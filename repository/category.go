package repository

import (
	"errors"
	"fmt"
	"log"

	"spendtrack/models"

	"gorm.io/gorm"
)

// categorySortColumns 类别列表允许的排序字段
var categorySortColumns = map[string]bool{
	"name":       true,
	"created_at": true,
}

// defaultCategories 新用户的内置默认类别
var defaultCategories = []models.CategoryInput{
	{Name: "Food & Dining", Description: "Restaurants, groceries, and food delivery", Color: "#FF5733", Icon: "restaurant"},
	{Name: "Transportation", Description: "Public transit, gas, and vehicle maintenance", Color: "#3498DB", Icon: "directions_car"},
	{Name: "Housing", Description: "Rent, mortgage, and home maintenance", Color: "#2ECC71", Icon: "home"},
	{Name: "Entertainment", Description: "Movies, concerts, and other entertainment", Color: "#9B59B6", Icon: "movie"},
	{Name: "Shopping", Description: "Clothing, electronics, and other retail purchases", Color: "#F39C12", Icon: "shopping_cart"},
	{Name: "Utilities", Description: "Electricity, water, internet, and phone bills", Color: "#1ABC9C", Icon: "power"},
	{Name: "Healthcare", Description: "Medical appointments, medications, and insurance", Color: "#E74C3C", Icon: "local_hospital"},
	{Name: "Travel", Description: "Flights, hotels, and vacation expenses", Color: "#34495E", Icon: "flight"},
	{Name: "Personal Care", Description: "Haircuts, gym memberships, and personal care items", Color: "#D35400", Icon: "spa"},
	{Name: "Other", Description: "Miscellaneous expenses", Color: "#7F8C8D", Icon: "more_horiz"},
}

// CategoryRepository 消费类别表仓库
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建类别仓库
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// CategoryPage 类别分页结果
type CategoryPage struct {
	Items []models.Category `json:"items"`
	Total int64             `json:"total"`
	Skip  int               `json:"skip"`
	Limit int               `json:"limit"`
}

// FindByID 按 ID 查找类别，不存在时返回 (nil, nil)
func (r *CategoryRepository) FindByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return &category, nil
}

// FindByUser 分页列出用户的类别，默认按名称升序
func (r *CategoryRepository) FindByUser(userID uint, opts ListOptions) (*CategoryPage, error) {
	opts.normalize(100, 200, "name")

	query := r.db.Model(&models.Category{}).Where("user_id = ?", userID)

	// 总数独立于分页窗口计算
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	var categories []models.Category
	if err := query.
		Order(opts.orderClause(categorySortColumns, "name")).
		Offset(opts.Skip).
		Limit(opts.Limit).
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return &CategoryPage{Items: categories, Total: total, Skip: opts.Skip, Limit: opts.Limit}, nil
}

// Create 校验并创建类别。(name, user_id) 冲突转为 name 字段错误。
func (r *CategoryRepository) Create(in models.CategoryInput) (*models.Category, map[string]string, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, errs, nil
	}

	category := models.NewCategory(in)
	if err := r.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, map[string]string{"name": "Category with this name already exists for this user"}, nil
		}
		return nil, nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil, nil
}

// CategoryUpdate 类别部分更新，nil 字段不修改
type CategoryUpdate struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
}

// Update 合并给定字段。记录不存在返回 ErrNotFound，无字段可更新返回 ErrNoChanges。
func (r *CategoryRepository) Update(id uint, in CategoryUpdate) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Color != nil {
		updates["color"] = *in.Color
	}
	if in.Icon != nil {
		updates["icon"] = *in.Icon
	}
	if len(updates) == 0 {
		return nil, ErrNoChanges
	}

	if err := r.db.Model(&category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	if err := r.db.First(&category, id).Error; err != nil {
		return nil, fmt.Errorf("reload category: %w", err)
	}
	return &category, nil
}

// Delete 按 ID 删除类别，幂等，不做引用检查
func (r *CategoryRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.Category{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete category: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteIfUnused 删除类别，引用检查与删除在同一事务内完成，
// 避免检查和删除之间插入新消费记录造成悬挂引用。
// 仍被引用返回 ErrCategoryInUse，不存在返回 ErrNotFound。
func (r *CategoryRepository) DeleteIfUnused(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.Expense{}).Where("category_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("count referencing expenses: %w", err)
		}
		if refs > 0 {
			return ErrCategoryInUse
		}

		result := tx.Delete(&models.Category{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateDefaultCategories 为新用户批量创建内置默认类别。
// 每条独立插入，冲突或其他失败跳过该条，返回实际创建数量。
// 对已有部分默认类别的用户重复执行只会补齐缺失项。
func (r *CategoryRepository) CreateDefaultCategories(userID uint) int {
	created := 0
	for _, in := range defaultCategories {
		in.UserID = userID
		category := models.NewCategory(in)
		if err := r.db.Create(&category).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				log.Printf("创建默认类别 %q 失败: %v", in.Name, err)
			}
			continue
		}
		created++
	}
	return created
}
