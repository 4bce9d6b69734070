package service

import (
	"Memoria/internal/api/dto"
	"Memoria/internal/pkg/consts"
	"Memoria/internal/pkg/util"
	"Memoria/internal/repository"
	"math"
	"strconv"
	"strings"
)

// 各实体支持的排序方式，未识别的 sortBy 一律按 latest 处理
var (
	groupSorts = map[string]string{
		"latest":     repository.SortCreatedAt,
		"mostLiked":  repository.SortLikeCount,
		"mostPosted": repository.SortPostTotal,
		"mostBadge":  repository.SortBadgeCount,
	}
	postSorts = map[string]string{
		"latest":        repository.SortCreatedAt,
		"mostLiked":     repository.SortLikeCount,
		"mostCommented": repository.SortCommentTotal,
	}
)

type listQuery struct {
	page     int64
	pageSize int64
	sortKey  string
	keyword  string
	isPublic *bool
}

func parsePositive(raw string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// normalizeQuery page/pageSize 缺省或非法时取默认值，isPublic 只认 "true"/"false"
func normalizeQuery(q *dto.ListQueryDTO, sorts map[string]string) listQuery {
	if q == nil {
		q = &dto.ListQueryDTO{}
	}

	res := listQuery{
		page:     parsePositive(q.Page, consts.DefaultPage),
		pageSize: parsePositive(q.PageSize, consts.DefaultPageSize),
		keyword:  strings.TrimSpace(q.Keyword),
	}
	if res.pageSize > consts.MaxPageSize {
		res.pageSize = consts.MaxPageSize
	}
	// 页码过大时 skip 会溢出，截到最后一个可表示的页，结果为空页
	if maxPage := math.MaxInt64 / res.pageSize; res.page > maxPage {
		res.page = maxPage
	}

	if key, ok := sorts[q.SortBy]; ok {
		res.sortKey = key
	} else {
		res.sortKey = repository.SortCreatedAt
	}

	switch q.IsPublic {
	case "true":
		res.isPublic = util.PtrBool(true)
	case "false":
		res.isPublic = util.PtrBool(false)
	}
	return res
}

func (q listQuery) options() *repository.ListOptions {
	return &repository.ListOptions{
		Keyword:  q.keyword,
		IsPublic: q.isPublic,
		SortKey:  q.sortKey,
		Skip:     (q.page - 1) * q.pageSize,
		Limit:    q.pageSize,
	}
}

func (q listQuery) scopedOptions(scope []uint64) *repository.ListOptions {
	opts := q.options()
	opts.Scoped = true
	opts.Scope = scope
	return opts
}

func totalPages(total, pageSize int64) int64 {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func newPage[T any](q listQuery, total int64, data []T) *dto.PageDTO[T] {
	if data == nil {
		data = make([]T, 0)
	}
	return &dto.PageDTO[T]{
		CurrentPage:    q.page,
		TotalPages:     totalPages(total, q.pageSize),
		TotalItemCount: total,
		Data:           data,
	}
}
