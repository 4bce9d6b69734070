package model

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	OrphanKindPost    = "post"
	OrphanKindComment = "comment"
)

// OrphanLink 父子两步写入中未能收敛的一条归属关系，由修复任务重放
type OrphanLink struct {
	Kind     string
	ChildID  uint64
	ParentID uint64
}

func (o OrphanLink) String() string {
	return fmt.Sprintf("%s:%d:%d", o.Kind, o.ChildID, o.ParentID)
}

// ParseOrphanLink 解析 kind:child:parent
func ParseOrphanLink(s string) (OrphanLink, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return OrphanLink{}, fmt.Errorf("malformed orphan link %q", s)
	}
	if parts[0] != OrphanKindPost && parts[0] != OrphanKindComment {
		return OrphanLink{}, fmt.Errorf("unknown orphan kind %q", parts[0])
	}
	child, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return OrphanLink{}, fmt.Errorf("malformed orphan child %q: %w", s, err)
	}
	parent, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return OrphanLink{}, fmt.Errorf("malformed orphan parent %q: %w", s, err)
	}
	return OrphanLink{Kind: parts[0], ChildID: child, ParentID: parent}, nil
}
