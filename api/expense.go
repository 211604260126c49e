package api

import (
	"errors"
	"strconv"
	"time"

	"spendtrack/database"
	"spendtrack/middleware"
	"spendtrack/models"
	"spendtrack/repository"

	"github.com/gin-gonic/gin"
)

// 时间参数格式
const (
	dateTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	expenses   *repository.ExpenseRepository
	categories *repository.CategoryRepository
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler() *ExpenseHandler {
	return &ExpenseHandler{
		expenses:   repository.NewExpenseRepository(database.GetDB()),
		categories: repository.NewCategoryRepository(database.GetDB()),
	}
}

// CreateExpenseRequest 创建消费记录请求
type CreateExpenseRequest struct {
	Amount        float64 `json:"amount" example:"99.99"`
	Description   string  `json:"description" example:"午餐"`
	CategoryID    uint    `json:"category_id" example:"1"`
	Date          string  `json:"date" example:"2024-01-15 12:30:00"`
	PaymentMethod string  `json:"payment_method" example:"Cash"`
}

// UpdateExpenseRequest 更新消费记录请求
type UpdateExpenseRequest struct {
	Amount        *float64 `json:"amount" binding:"omitempty,gt=0" example:"99.99"`
	Description   *string  `json:"description" example:"午餐"`
	CategoryID    *uint    `json:"category_id" example:"1"`
	Date          *string  `json:"date" example:"2024-01-15 12:30:00"`
	PaymentMethod *string  `json:"payment_method" example:"Credit Card"`
}

// ExpenseListRequest 消费记录列表请求
type ExpenseListRequest struct {
	Skip       int    `form:"skip" example:"0"`
	Limit      int    `form:"limit" example:"50"`
	SortBy     string `form:"sort_by" example:"date"`
	SortDir    int    `form:"sort_dir" example:"-1"`
	CategoryID uint   `form:"category_id" example:"1"`
	StartDate  string `form:"start_date" example:"2024-01-01"`
	EndDate    string `form:"end_date" example:"2024-12-31"`
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 创建一条新的消费记录。category_id 必须指向当前用户已有的类别。
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "消费记录信息"
// @Success 201 {object} Response{data=models.Expense} "创建成功"
// @Failure 400 {object} Response "字段校验失败或类别无效"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	var date time.Time
	if req.Date != "" {
		var err error
		date, err = parseDateTime(req.Date)
		if err != nil {
			BadRequest(c, "时间格式错误，应为: 2006-01-02 15:04:05 或 2006-01-02")
			return
		}
	}

	in := models.ExpenseInput{
		Amount:        req.Amount,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		UserID:        userID,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
	}
	if errs := in.Validate(); len(errs) > 0 {
		FieldErrors(c, errs)
		return
	}

	// 类别引用由调用方校验：必须存在且属于当前用户
	category, err := h.categories.FindByID(req.CategoryID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询类别失败"))
		return
	}
	if category == nil || category.UserID != userID {
		BadRequest(c, "无效的消费类别")
		return
	}

	expense, fieldErrs, err := h.expenses.Create(in)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "创建消费记录失败"))
		return
	}
	if len(fieldErrs) > 0 {
		FieldErrors(c, fieldErrs)
		return
	}

	Created(c, "创建成功", expense)
}

// List 获取消费记录列表
// @Summary 获取消费记录列表
// @Description 分页获取当前用户的消费记录，支持日期范围与类别筛选，默认按日期降序。total 为满足筛选条件的总数，与分页窗口无关。
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param skip query int false "跳过条数" default(0)
// @Param limit query int false "每页数量" default(50)
// @Param sort_by query string false "排序字段 (date/amount/created_at)" default(date)
// @Param sort_dir query int false "排序方向，1 升序 -1 降序" default(-1)
// @Param category_id query int false "类别筛选"
// @Param start_date query string false "开始日期 (2024-01-01)，含当天"
// @Param end_date query string false "结束日期 (2024-12-31)，含当天"
// @Success 200 {object} Response{data=repository.ExpensePage} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	filter := repository.ExpenseFilter{CategoryID: req.CategoryID}
	filter.StartDate, filter.EndDate = parseDateRange(req.StartDate, req.EndDate)

	page, err := h.expenses.FindByUser(userID, repository.ListOptions{
		Skip:    req.Skip,
		Limit:   req.Limit,
		SortBy:  req.SortBy,
		SortDir: req.SortDir,
	}, filter)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	Success(c, page)
}

// Get 获取单条消费记录
// @Summary 获取单条消费记录
// @Description 根据ID获取消费记录详情，仅限当前用户的记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录ID"
// @Success 200 {object} Response{data=models.Expense} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	expense, err := h.expenses.FindByID(uint(id))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if expense == nil || expense.UserID != userID {
		NotFound(c, "记录不存在")
		return
	}
	Success(c, expense)
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Description 部分更新消费记录，未携带的字段保持不变，updated_at 总是刷新
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录ID"
// @Param request body UpdateExpenseRequest true "消费记录信息"
// @Success 200 {object} Response{data=models.Expense} "更新成功"
// @Failure 400 {object} Response "请求参数错误或未携带任何字段"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	existing, err := h.expenses.FindByID(uint(id))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if existing == nil || existing.UserID != userID {
		NotFound(c, "记录不存在")
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	update := repository.ExpenseUpdate{
		Amount:        req.Amount,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
	}

	if req.CategoryID != nil {
		category, err := h.categories.FindByID(*req.CategoryID)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "查询类别失败"))
			return
		}
		if category == nil || category.UserID != userID {
			BadRequest(c, "无效的消费类别")
			return
		}
		update.CategoryID = req.CategoryID
	}

	if req.Date != nil {
		date, err := parseDateTime(*req.Date)
		if err != nil {
			BadRequest(c, "时间格式错误，应为: 2006-01-02 15:04:05 或 2006-01-02")
			return
		}
		update.Date = &date
	}

	expense, err := h.expenses.Update(uint(id), update)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "记录不存在")
		return
	case errors.Is(err, repository.ErrNoChanges):
		BadRequest(c, "未携带任何可更新字段")
		return
	case err != nil:
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	SuccessWithMessage(c, "更新成功", expense)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Description 删除当前用户的指定消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "消费记录ID"
// @Success 200 {object} Response "删除成功"
// @Failure 401 {object} Response "未授权"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	existing, err := h.expenses.FindByID(uint(id))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if existing == nil || existing.UserID != userID {
		NotFound(c, "记录不存在")
		return
	}

	if _, err := h.expenses.Delete(uint(id)); err != nil {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	SuccessWithMessage(c, "删除成功", nil)
}

// parseDateTime 解析时间参数，兼容日期和日期时间两种格式
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateTimeLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, s, time.Local)
}

// parseDateRange 解析闭区间日期范围，结束日期含当天
func parseDateRange(startStr, endStr string) (*time.Time, *time.Time) {
	var start, end *time.Time
	if startStr != "" {
		if t, err := time.ParseInLocation(dateLayout, startStr, time.Local); err == nil {
			start = &t
		}
	}
	if endStr != "" {
		if t, err := time.ParseInLocation(dateLayout, endStr, time.Local); err == nil {
			// 包含结束日期当天
			t = t.Add(24*time.Hour - time.Second)
			end = &t
		}
	}
	return start, end
}
