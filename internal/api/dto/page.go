package dto

// ListQueryDTO 列表查询参数，非法值由列表引擎回落到默认值
type ListQueryDTO struct {
	Page     string `form:"page"`
	PageSize string `form:"pageSize"`
	SortBy   string `form:"sortBy"`
	Keyword  string `form:"keyword"`
	IsPublic string `form:"isPublic"`
}

// PageDTO 分页信封
type PageDTO[T any] struct {
	CurrentPage    int64 `json:"currentPage"`
	TotalPages     int64 `json:"totalPages"`
	TotalItemCount int64 `json:"totalItemCount"`
	Data           []T   `json:"data"`
}

// PasswordDTO 只携带门禁密码的请求体
type PasswordDTO struct {
	Password string `json:"password" form:"password"`
}

type LikeDTO struct {
	LikeCount int64 `json:"likeCount"`
}

type VisibilityDTO struct {
	ID       uint64 `json:"id"`
	IsPublic bool   `json:"isPublic"`
}

type ImageDTO struct {
	ImageURL string `json:"imageUrl"`
}
