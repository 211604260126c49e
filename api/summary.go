package api

import (
	"strconv"

	"spendtrack/database"
	"spendtrack/middleware"
	"spendtrack/repository"

	"github.com/gin-gonic/gin"
)

// SummaryHandler 消费统计处理器
type SummaryHandler struct {
	expenses *repository.ExpenseRepository
}

// NewSummaryHandler 创建消费统计处理器
func NewSummaryHandler() *SummaryHandler {
	return &SummaryHandler{
		expenses: repository.NewExpenseRepository(database.GetDB()),
	}
}

// ByCategory 按类别统计
// @Summary 按类别统计消费
// @Description 统计当前用户各类别的消费总额与笔数，按总额降序。支持日期范围筛选，无记录时返回空数组。
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "开始日期 (2024-01-01)，含当天"
// @Param end_date query string false "结束日期 (2024-12-31)，含当天"
// @Success 200 {object} Response{data=[]repository.CategorySummary} "统计成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses/summary/by-category [get]
func (h *SummaryHandler) ByCategory(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	start, end := parseDateRange(c.Query("start_date"), c.Query("end_date"))

	result, err := h.expenses.SummaryByCategory(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "统计失败"))
		return
	}
	Success(c, result)
}

// ByMonth 按月份统计
// @Summary 按月份统计消费
// @Description 统计当前用户指定年份各月的消费总额与笔数，按月份升序，仅返回有记录的月份。不传 year 时统计当前年份。
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param year query int false "年份，默认当前年份" example(2024)
// @Success 200 {object} Response{data=[]repository.MonthSummary} "统计成功"
// @Failure 400 {object} Response "年份参数错误"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses/summary/by-month [get]
func (h *SummaryHandler) ByMonth(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	year := 0
	if s := c.Query("year"); s != "" {
		var err error
		year, err = strconv.Atoi(s)
		if err != nil || year < 0 {
			BadRequest(c, "无效的年份")
			return
		}
	}

	result, err := h.expenses.SummaryByMonth(userID, year)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "统计失败"))
		return
	}
	Success(c, result)
}

// ByPaymentMethod 按支付方式统计
// @Summary 按支付方式统计消费
// @Description 统计当前用户各支付方式的消费总额与笔数，按总额降序。支持日期范围筛选。
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "开始日期 (2024-01-01)，含当天"
// @Param end_date query string false "结束日期 (2024-12-31)，含当天"
// @Success 200 {object} Response{data=[]repository.PaymentMethodSummary} "统计成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/expenses/summary/by-payment-method [get]
func (h *SummaryHandler) ByPaymentMethod(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	start, end := parseDateRange(c.Query("start_date"), c.Query("end_date"))

	result, err := h.expenses.SummaryByPaymentMethod(userID, start, end)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "统计失败"))
		return
	}
	Success(c, result)
}
