package api

import (
	"errors"

	"spendtrack/config"
	"spendtrack/database"
	"spendtrack/middleware"
	"spendtrack/models"
	"spendtrack/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg        *config.Config
	users      *repository.UserRepository
	categories *repository.CategoryRepository
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg:        cfg,
		users:      repository.NewUserRepository(database.GetDB()),
		categories: repository.NewCategoryRepository(database.GetDB()),
	}
}

// LoginRequest 登录请求（支持用户名或邮箱）
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"testuser"` // 可为用户名或邮箱
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"user_info"`
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	User              models.User `json:"user"`
	CategoriesCreated int         `json:"categories_created"` // 同时创建的默认类别数
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号，并为新用户初始化一套内置默认消费类别
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body models.UserInput true "注册信息"
// @Success 201 {object} Response{data=RegisterResponse} "注册成功"
// @Failure 400 {object} Response "字段校验失败或用户名/邮箱已存在"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var in models.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, fieldErrs, err := h.users.Create(in)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "创建用户失败"))
		return
	}
	if len(fieldErrs) > 0 {
		FieldErrors(c, fieldErrs)
		return
	}

	// 为新用户初始化默认类别，单条失败不影响注册
	created := h.categories.CreateDefaultCategories(user.ID)

	Created(c, "注册成功", RegisterResponse{User: *user, CategoriesCreated: created})
}

// Login 用户登录
// @Summary 用户登录
// @Description 用户登录获取 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "用户名或密码错误"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 查找用户（支持用户名或邮箱）
	user, err := h.users.FindByUsername(req.Username)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "登录失败"))
		return
	}
	if user == nil {
		user, err = h.users.FindByEmail(req.Username)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "登录失败"))
			return
		}
	}
	if user == nil || !user.CheckPassword(req.Password) {
		Unauthorized(c, "用户名或密码错误")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, LoginResponse{Token: token, UserInfo: *user})
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Description 获取当前登录用户的详细信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	user, err := h.users.FindByID(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if user == nil {
		NotFound(c, "用户不存在")
		return
	}

	Success(c, user)
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	Email     *string `json:"email" binding:"omitempty,email" example:"new@example.com"`
	FirstName *string `json:"first_name" example:"三"`
	LastName  *string `json:"last_name" example:"张"`
}

// UpdateProfile 更新当前用户资料
// @Summary 更新当前用户资料
// @Description 部分更新当前用户的邮箱和姓名，未携带的字段保持不变
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "资料信息"
// @Success 200 {object} Response{data=models.User} "更新成功"
// @Failure 400 {object} Response "请求参数错误、未携带任何字段或邮箱已被占用"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/v1/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, err := h.users.Update(userID, repository.UserUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "用户不存在")
		return
	case errors.Is(err, repository.ErrNoChanges):
		BadRequest(c, "未携带任何可更新字段")
		return
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// 邮箱唯一索引冲突
		FieldErrors(c, map[string]string{"email": "Email already exists"})
		return
	case err != nil:
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", user)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"oldpassword123"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=50" example:"newpassword123"`
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Description 校验原密码后修改为新密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "密码信息"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "原密码错误"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, err := h.users.FindByID(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if user == nil {
		NotFound(c, "用户不存在")
		return
	}

	if !user.CheckPassword(req.OldPassword) {
		Unauthorized(c, "原密码错误")
		return
	}

	if _, err := h.users.Update(userID, repository.UserUpdate{Password: &req.NewPassword}); err != nil {
		InternalError(c, SafeErrorMessage(err, "修改密码失败"))
		return
	}

	SuccessWithMessage(c, "修改成功", nil)
}
