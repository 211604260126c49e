package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserInput_Validate(t *testing.T) {
	// 合法输入
	in := UserInput{Username: "test_user1", Email: "test@example.com", Password: "password123"}
	assert.Empty(t, in.Validate())

	// 缺少必填字段
	errs := UserInput{}.Validate()
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	// 邮箱格式：必须含 @ 和 .
	errs = UserInput{Username: "u1", Email: "not-an-email", Password: "password123"}.Validate()
	assert.Equal(t, "Invalid email format", errs["email"])
	errs = UserInput{Username: "u1", Email: "a@b", Password: "password123"}.Validate()
	assert.Equal(t, "Invalid email format", errs["email"])

	// 用户名仅允许字母数字下划线
	errs = UserInput{Username: "bad name!", Email: "a@b.com", Password: "password123"}.Validate()
	assert.Contains(t, errs["username"], "letters, numbers, and underscores")

	// 密码至少 8 位
	errs = UserInput{Username: "u1", Email: "a@b.com", Password: "short"}.Validate()
	assert.Contains(t, errs["password"], "at least 8 characters")
}

func TestUser_PasswordHash(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("supersecret"))

	// 明文不落库
	assert.NotEqual(t, "supersecret", u.PasswordHash)
	assert.NotEmpty(t, u.PasswordHash)

	assert.True(t, u.CheckPassword("supersecret"))
	assert.False(t, u.CheckPassword("wrongpassword"))

	// 未设置密码时校验失败
	var empty User
	assert.False(t, empty.CheckPassword("anything"))
}
