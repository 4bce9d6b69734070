package util

import (
	"strconv"
)

// ParseID 解析路径中的编号，非正整数一律视为无效
func ParseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// PtrBool 用于将 bool 转换为 *bool
func PtrBool(b bool) *bool {
	return &b
}
