package api

import (
	"strconv"

	"spendtrack/database"
	"spendtrack/repository"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户管理处理器
type UserHandler struct {
	users *repository.UserRepository
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler() *UserHandler {
	return &UserHandler{users: repository.NewUserRepository(database.GetDB())}
}

// List 获取用户列表
// @Summary 获取用户列表
// @Description 分页获取所有用户，total 为全量计数，与分页窗口无关
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页数量" default(20)
// @Param sort_by query string false "排序字段 (username/email/created_at)" default(username)
// @Param sort_dir query int false "排序方向，1 升序 -1 降序" default(1)
// @Success 200 {object} Response{data=repository.UserPage} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	page, err := h.users.ListAll(listOptionsFromQuery(c))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	Success(c, page)
}

// Get 获取单个用户
// @Summary 获取单个用户
// @Description 根据ID获取用户详情
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	user, err := h.users.FindByID(uint(id))
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

// Delete 删除用户
// @Summary 删除用户
// @Description 删除指定用户。不级联清理其名下的类别与消费记录。
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param id path int true "用户ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	deleted, err := h.users.Delete(uint(id))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}
	if !deleted {
		NotFound(c, "用户不存在")
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// listOptionsFromQuery 从查询参数解析分页与排序，非法值交由仓库收敛
func listOptionsFromQuery(c *gin.Context) repository.ListOptions {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	sortDir, _ := strconv.Atoi(c.DefaultQuery("sort_dir", "0"))
	return repository.ListOptions{
		Skip:    skip,
		Limit:   limit,
		SortBy:  c.Query("sort_by"),
		SortDir: sortDir,
	}
}
