package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost 与存量数据保持一致的 bcrypt 工作因子
const DefaultCost = 10

var (
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PasswordHasher 单向密码摘要
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) error
}

type bcryptHasher struct {
	cost int
}

// NewPasswordHasher cost 非法时回落到 DefaultCost
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (s *bcryptHasher) Hash(password string) (string, error) {
	return hashPassword(password, s.cost)
}

func (s *bcryptHasher) Verify(password, digest string) error {
	return CheckPasswordHash(password, digest)
}

func hashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// CheckPasswordHash 检查密码是否与哈希值匹配
func CheckPasswordHash(password, hash string) error {
	if hash == "" {
		return ErrInvalidCredentials
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	if err != nil && errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}

	return err
}
