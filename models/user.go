package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Username     string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"`
	FirstName    string         `json:"first_name" gorm:"size:50"`
	LastName     string         `json:"last_name" gorm:"size:50"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// SetPassword 加密并设置密码，明文不落库
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UserInput 创建用户的入参
type UserInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Validate 校验用户数据，返回 字段名 -> 错误信息，空表示通过
func (in UserInput) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(in.Username) == "" {
		errs["username"] = "username is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		errs["email"] = "email is required"
	}
	if in.Password == "" {
		errs["password"] = "password is required"
	}

	// 简单的邮箱格式检查
	if in.Email != "" {
		if !strings.Contains(in.Email, "@") || !strings.Contains(in.Email, ".") {
			errs["email"] = "Invalid email format"
		}
	}

	// 用户名仅允许字母、数字和下划线
	if in.Username != "" && !isValidUsername(in.Username) {
		errs["username"] = "Username must contain only letters, numbers, and underscores"
	}

	// 密码强度
	if in.Password != "" && len(in.Password) < 8 {
		errs["password"] = "Password must be at least 8 characters long"
	}

	return errs
}

func isValidUsername(username string) bool {
	for _, c := range username {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}
