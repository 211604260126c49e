package repository

import (
	"errors"
	"fmt"

	"spendtrack/models"

	"gorm.io/gorm"
)

// userSortColumns 用户列表允许的排序字段
var userSortColumns = map[string]bool{
	"username":   true,
	"email":      true,
	"created_at": true,
}

// UserRepository 用户表仓库
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UserPage 用户分页结果，Total 为匹配总数，与窗口无关
type UserPage struct {
	Items []models.User `json:"items"`
	Total int64         `json:"total"`
	Skip  int           `json:"skip"`
	Limit int           `json:"limit"`
}

// FindByID 按 ID 查找用户，不存在时返回 (nil, nil)
func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByUsername 按用户名查找，不存在时返回 (nil, nil)
func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindByEmail 按邮箱查找，不存在时返回 (nil, nil)
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// Create 校验并创建用户。字段错误通过 map 返回，校验失败不产生写入。
// 返回值: (用户, 字段错误, 存储层错误)
func (r *UserRepository) Create(in models.UserInput) (*models.User, map[string]string, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, errs, nil
	}

	// 预检用户名/邮箱占用，给出字段级错误
	if existing, err := r.FindByUsername(in.Username); err != nil {
		return nil, nil, err
	} else if existing != nil {
		return nil, map[string]string{"username": "Username already exists"}, nil
	}
	if existing, err := r.FindByEmail(in.Email); err != nil {
		return nil, nil, err
	} else if existing != nil {
		return nil, map[string]string{"email": "Email already exists"}, nil
	}

	user := models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	if err := r.db.Create(&user).Error; err != nil {
		// 与预检并发的冲突由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, map[string]string{"error": "User with this username or email already exists"}, nil
		}
		return nil, nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil, nil
}

// UserUpdate 用户部分更新，nil 字段不修改
type UserUpdate struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
}

// Update 合并给定字段。记录不存在返回 ErrNotFound，无字段可更新返回 ErrNoChanges。
func (r *UserRepository) Update(id uint, in UserUpdate) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	updates := make(map[string]interface{})
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.Password != nil {
		// 密码不直接落库，转存哈希
		var tmp models.User
		if err := tmp.SetPassword(*in.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		updates["password_hash"] = tmp.PasswordHash
	}
	if len(updates) == 0 {
		return nil, ErrNoChanges
	}

	// 唯一索引冲突（如邮箱占用）随包装错误向上传递，调用方用 errors.Is 判定
	if err := r.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if err := r.db.First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	return &user, nil
}

// Delete 按 ID 删除用户，幂等，返回是否确实删除了记录。
// 注意：不级联清理该用户名下的类别与消费记录。
func (r *UserRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.User{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("delete user: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListAll 分页列出所有用户
func (r *UserRepository) ListAll(opts ListOptions) (*UserPage, error) {
	opts.normalize(20, 100, "username")

	query := r.db.Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	var users []models.User
	if err := query.
		Order(opts.orderClause(userSortColumns, "username")).
		Offset(opts.Skip).
		Limit(opts.Limit).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &UserPage{Items: users, Total: total, Skip: opts.Skip, Limit: opts.Limit}, nil
}
