package model

// 各集合的序列名
const (
	SeqGroup   = "groups"
	SeqPost    = "posts"
	SeqComment = "comments"
)

// Counter 单文档原子计数器
type Counter struct {
	Name string `bson:"_id"`
	Seq  uint64 `bson:"seq"`
}
