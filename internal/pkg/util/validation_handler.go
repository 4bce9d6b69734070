package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// BcryptMaxBytes bcrypt 只接受 72 字节以内的输入，按字节而非字符计
const BcryptMaxBytes = 72

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("moment", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		if v == "" {
			return true
		}
		_, err := time.Parse(time.DateOnly, v)
		return err == nil
	})
	_ = validate.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= BcryptMaxBytes
	})
}

// ValidationError 字段规则校验失败
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("字段 [%s] 校验失败，规则 [%s]", e.Field, e.Rule)
}

func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			firstError := vErrs[0]
			return &ValidationError{Field: firstError.Field(), Rule: firstError.Tag()}
		}
		return err
	}
	return nil
}
