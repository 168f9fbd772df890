package errors

import (
	"errors"
	"fmt"
)

// ── 错误分类 ──
// 各业务模块的错误通过 fmt.Errorf("%w") 挂靠到以下分类之一，
// Handler 层可以按分类兜底映射 HTTP 状态码。

var (
	// ErrNotFound 更新/查询的目标记录不存在
	ErrNotFound = errors.New("记录不存在")
	// ErrReferenceNotFound 输入中的外键未指向任何现存记录
	ErrReferenceNotFound = errors.New("关联记录不存在")
	// ErrUniquenessViolation 唯一约束冲突（序列号、用户名、邮箱）
	ErrUniquenessViolation = errors.New("唯一性冲突")
	// ErrReferenceInUse 记录仍被其他记录引用，无法删除
	ErrReferenceInUse = errors.New("记录仍被引用")
	// ErrInvalidState 业务状态不允许该操作
	ErrInvalidState = errors.New("状态不允许该操作")
)

// Wrap 基于分类构造模块级错误，如 Wrap(ErrNotFound, "资产不存在")
func Wrap(category error, message string) error {
	return fmt.Errorf("%w: %s", category, message)
}

// DuplicateKeyError 存储层唯一约束冲突（PostgreSQL 23505）
type DuplicateKeyError struct {
	Constraint string
	Err        error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("唯一约束 %s 冲突: %v", e.Constraint, e.Err)
}

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrUniquenessViolation) 成立
func (e *DuplicateKeyError) Is(target error) bool { return target == ErrUniquenessViolation }

// ForeignKeyError 存储层外键约束冲突（PostgreSQL 23503）
// 写入时表示引用不存在，删除时表示记录仍被引用，由调用方按操作语义解释。
type ForeignKeyError struct {
	Constraint string
	Err        error
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf("外键约束 %s 冲突: %v", e.Constraint, e.Err)
}

func (e *ForeignKeyError) Unwrap() error { return e.Err }
