package model

// UserRole 用户角色
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleRegular UserRole = "regular"
)

// Valid 是否为已知角色
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleRegular
}

// User 用户表 — 对应 users
type User struct {
	ID           int64    `gorm:"primaryKey;autoIncrement"   json:"id"`
	Username     string   `gorm:"type:text;not null"  json:"username"`
	Email        string   `gorm:"type:text;not null"  json:"email"`
	PasswordHash *string  `gorm:"type:text"                  json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null"  json:"role"`
	Department   string   `gorm:"type:text;not null"         json:"department"`
	CreatedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
