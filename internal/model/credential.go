package model

// Credential 密码摘要。明文只在本次写入中暂存，提交前由 Seal 转为摘要
type Credential struct {
	Digest  string `bson:"password_hash,omitempty" json:"-"`
	pending *string
}

// Stage 暂存新密码，标记本次写入修改了密码
func (c *Credential) Stage(plain string) {
	c.pending = &plain
}

// Modified 本次写入是否修改过密码
func (c *Credential) Modified() bool {
	return c.pending != nil
}

// Seal 仅当密码被修改时计算摘要，未修改的摘要保持原样
func (c *Credential) Seal(hash func(string) (string, error)) error {
	if c.pending == nil {
		return nil
	}
	digest, err := hash(*c.pending)
	if err != nil {
		return err
	}
	c.Digest = digest
	c.pending = nil
	return nil
}
