// Package repository 封装各实体表的读写与统计查询。
// 每个仓库持有注入的 *gorm.DB，句柄在启动时构造一次，不依赖包级状态。
package repository

import (
	"errors"
	"fmt"
)

// 排序方向，+1 升序，-1 降序
const (
	SortAsc  = 1
	SortDesc = -1
)

var (
	// ErrNotFound 目标记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrNoChanges 更新未携带任何字段
	ErrNoChanges = errors.New("no changes made")
	// ErrCategoryInUse 类别仍被消费记录引用，不能删除
	ErrCategoryInUse = errors.New("category is referenced by existing expenses")
)

// ListOptions 分页与排序参数
type ListOptions struct {
	Skip    int
	Limit   int
	SortBy  string
	SortDir int
}

// normalize 补全默认值并收敛非法参数
func (o *ListOptions) normalize(defaultLimit, maxLimit int, defaultSortBy string) {
	if o.Skip < 0 {
		o.Skip = 0
	}
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	if o.Limit > maxLimit {
		o.Limit = maxLimit
	}
	if o.SortBy == "" {
		o.SortBy = defaultSortBy
	}
	if o.SortDir != SortAsc && o.SortDir != SortDesc {
		o.SortDir = SortAsc
	}
}

// orderClause 生成排序子句，sortBy 必须在白名单内，否则回退默认列
func (o ListOptions) orderClause(allowed map[string]bool, fallback string) string {
	column := o.SortBy
	if !allowed[column] {
		column = fallback
	}
	dir := "ASC"
	if o.SortDir == SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id %s", column, dir, dir)
}
