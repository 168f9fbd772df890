package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "hospital-asset/backend/pkg/errors"
)

// PostgreSQL SQLSTATE
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError 将驱动层约束冲突转换为 pkg/errors 中的存储错误类型，
// 其余错误（含 gorm.ErrRecordNotFound）原样返回。
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &pkgerrors.DuplicateKeyError{Constraint: pgErr.ConstraintName, Err: err}
		case pgForeignKeyViolation:
			return &pkgerrors.ForeignKeyError{Constraint: pgErr.ConstraintName, Err: err}
		}
	}
	return err
}

// updateByID 按主键执行部分字段更新，目标不存在时返回 gorm.ErrRecordNotFound
func updateByID(db *gorm.DB, m interface{}, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := db.Model(m).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// deleteByID 按主键删除，返回是否实际删除了记录
func deleteByID(db *gorm.DB, m interface{}, id int64) (bool, error) {
	result := db.Where("id = ?", id).Delete(m)
	if result.Error != nil {
		return false, translateError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

// existsByID 主键是否存在
func existsByID(db *gorm.DB, m interface{}, id int64) (bool, error) {
	var count int64
	if err := db.Model(m).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
