package api

import (
	"errors"
	"strconv"

	"spendtrack/database"
	"spendtrack/middleware"
	"spendtrack/models"
	"spendtrack/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler 消费类别处理器
type CategoryHandler struct {
	categories *repository.CategoryRepository
}

// NewCategoryHandler 创建消费类别处理器
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{categories: repository.NewCategoryRepository(database.GetDB())}
}

// CreateCategoryRequest 创建类别请求
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required" example:"Groceries"`
	Description string `json:"description" example:"Weekly groceries"`
	Color       string `json:"color" binding:"omitempty,max=20" example:"#3498db"`
	Icon        string `json:"icon" binding:"omitempty,max=50" example:"shopping_cart"`
}

// UpdateCategoryRequest 更新类别请求
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=50"`
	Description *string `json:"description"`
	Color       *string `json:"color" binding:"omitempty,max=20"`
	Icon        *string `json:"icon" binding:"omitempty,max=50"`
}

// List 获取当前用户的类别列表
// @Summary 获取类别列表
// @Description 分页获取当前用户的消费类别，默认按名称升序
// @Tags 消费类别
// @Produce json
// @Security BearerAuth
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页数量" default(100)
// @Param sort_by query string false "排序字段 (name/created_at)" default(name)
// @Param sort_dir query int false "排序方向，1 升序 -1 降序" default(1)
// @Success 200 {object} Response{data=repository.CategoryPage} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	page, err := h.categories.FindByUser(userID, listOptionsFromQuery(c))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, page)
}

// Get 获取单个类别
// @Summary 获取单个类别
// @Description 根据ID获取类别详情，仅限当前用户的类别
// @Tags 消费类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response{data=models.Category} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	category, err := h.categories.FindByID(uint(id))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if category == nil || category.UserID != userID {
		NotFound(c, "类别不存在")
		return
	}
	Success(c, category)
}

// Create 创建类别
// @Summary 创建类别
// @Description 为当前用户创建消费类别，同一用户下类别名称唯一
// @Tags 消费类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "类别信息"
// @Success 201 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "字段校验失败或类别名称已存在"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	category, fieldErrs, err := h.categories.Create(models.CategoryInput{
		Name:        req.Name,
		UserID:      userID,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "创建类别失败"))
		return
	}
	if len(fieldErrs) > 0 {
		FieldErrors(c, fieldErrs)
		return
	}

	Created(c, "创建成功", category)
}

// Update 更新类别
// @Summary 更新类别
// @Description 部分更新类别，未携带的字段保持不变
// @Tags 消费类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Param request body UpdateCategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 400 {object} Response "请求参数错误或未携带任何字段"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	// 仅允许操作自己的类别
	existing, err := h.categories.FindByID(uint(id))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if existing == nil || existing.UserID != userID {
		NotFound(c, "类别不存在")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	category, err := h.categories.Update(uint(id), repository.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "类别不存在")
		return
	case errors.Is(err, repository.ErrNoChanges):
		BadRequest(c, "未携带任何可更新字段")
		return
	case errors.Is(err, gorm.ErrDuplicatedKey):
		BadRequest(c, "类别名称已存在")
		return
	case err != nil:
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", category)
}

// Delete 删除类别
// @Summary 删除类别
// @Description 删除当前用户的类别。仍被消费记录引用的类别不能删除。
// @Tags 消费类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 400 {object} Response "类别仍被消费记录引用"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	existing, err := h.categories.FindByID(uint(id))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if existing == nil || existing.UserID != userID {
		NotFound(c, "类别不存在")
		return
	}

	// 引用检查与删除在一个事务内完成
	err = h.categories.DeleteIfUnused(uint(id))
	switch {
	case errors.Is(err, repository.ErrCategoryInUse):
		BadRequest(c, "类别下存在消费记录，不能删除")
		return
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "类别不存在")
		return
	case err != nil:
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// CreateDefaults 为当前用户补齐内置默认类别
// @Summary 初始化默认类别
// @Description 为当前用户创建内置的十个默认类别，已存在的跳过，返回实际创建数量
// @Tags 消费类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "创建完成，data.created 为实际创建数量"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/categories/defaults [post]
func (h *CategoryHandler) CreateDefaults(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	created := h.categories.CreateDefaultCategories(userID)
	SuccessWithMessage(c, "创建完成", gin.H{"created": created})
}
