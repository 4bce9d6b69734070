package consts

const (
	MimePrefixImage = "image"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

const (
	ImageObjectPrefix = "images"
)
