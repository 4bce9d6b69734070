package model

// PendingImage 已上传但尚未确认被分组或帖子引用的图片
type PendingImage struct {
	ObjectName string `json:"objectName"`
	URL        string `json:"url"`
	MimeType   string `json:"mimeType"`
	CreatedAt  int64  `json:"createdAt"`
}
