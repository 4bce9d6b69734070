package service

import (
	"Memoria/internal/pkg/security"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// AccessGate 公开与否及密码是否匹配的统一判定
type AccessGate struct {
	hasher security.PasswordHasher
}

func NewAccessGate(hasher security.PasswordHasher) *AccessGate {
	return &AccessGate{hasher: hasher}
}

// Require 修改与删除始终需要密码，校验对象是库里已存的摘要
func (g *AccessGate) Require(digest, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if err := g.hasher.Verify(password, digest); err != nil {
		if errors.Is(err, security.ErrInvalidCredentials) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return ErrPasswordIncorrect
		}
		return err
	}
	return nil
}

// Read 读取详情时仅非公开实体需要密码
func (g *AccessGate) Read(isPublic bool, digest, password string) error {
	if isPublic {
		return nil
	}
	return g.Require(digest, password)
}

type credentialSealer interface {
	Seal(hash func(string) (string, error)) error
}

// Seal 暂存的明文密码在落库前转为摘要，超出 bcrypt 长度上限按校验失败处理
func (g *AccessGate) Seal(sealer credentialSealer) error {
	err := sealer.Seal(g.hasher.Hash)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrValidation
	}
	return err
}
