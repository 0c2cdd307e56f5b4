package model

import "time"

// 用户角色
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// 账号创建来源
const (
	CreatedBySelfRegister = "self_register"
	CreatedByAdminImport  = "admin_import"
	CreatedBySystem       = "system"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"user_id"`
	AccountID    string    `gorm:"type:varchar(20);not null;uniqueIndex"                json:"account_id"` // 学（工）号
	Name         string    `gorm:"type:varchar(100);not null"                           json:"name"`
	Role         string    `gorm:"type:varchar(20);not null"                            json:"role"` // student/teacher/admin
	Department   string    `gorm:"type:varchar(200);not null"                           json:"department"` // 单位/学院
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"               json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"                           json:"-"`
	IsActive     bool      `gorm:"not null;default:true"                                json:"is_active"`
	CreatedBy    string    `gorm:"type:varchar(20);not null;default:'self_register'"    json:"created_by"` // self_register/admin_import/system
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                   json:"created_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
