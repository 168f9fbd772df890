package dto

import (
	"fmt"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/oapi-codegen/nullable"
)

// ── 稀疏更新字段校验 ──
// nullable.Nullable 不走 binding 标签，由各更新请求的 Validate 方法调用。

// PtrOf 将已提供的字段转换为指针，显式 null 与未提供均为 nil
func PtrOf[T any](f nullable.Nullable[T]) *T {
	v, err := f.Get()
	if err != nil {
		return nil
	}
	return &v
}

// notNull 非空列不接受显式 null
func notNull[T any](name string, f nullable.Nullable[T]) error {
	if f.IsNull() {
		return fmt.Errorf("%s 不能为 null", name)
	}
	return nil
}

// checkString 已提供时校验非 null 与长度范围（按字符计）
func checkString(name string, f nullable.Nullable[string], min, max int) error {
	if err := notNull(name, f); err != nil {
		return err
	}
	v, err := f.Get()
	if err != nil {
		return nil
	}
	return checkLength(name, v, min, max)
}

func checkLength(name, v string, min, max int) error {
	n := utf8.RuneCountInString(v)
	if n < min || (max > 0 && n > max) {
		return fmt.Errorf("%s 长度必须在 %d-%d 之间", name, min, max)
	}
	return nil
}

type emailValue struct {
	Email string `binding:"required,email"`
}

// checkEmail 复用 gin validator 的 email 规则
func checkEmail(name string, f nullable.Nullable[string]) error {
	if err := notNull(name, f); err != nil {
		return err
	}
	v, err := f.Get()
	if err != nil {
		return nil
	}
	if err := binding.Validator.ValidateStruct(&emailValue{Email: v}); err != nil {
		return fmt.Errorf("%s 格式不正确", name)
	}
	return nil
}

// checkEnum 已提供时校验非 null 且为合法枚举值
func checkEnum[T interface{ Valid() bool }](name string, f nullable.Nullable[T]) error {
	if err := notNull(name, f); err != nil {
		return err
	}
	if v, err := f.Get(); err == nil && !v.Valid() {
		return fmt.Errorf("%s 取值不合法", name)
	}
	return nil
}
