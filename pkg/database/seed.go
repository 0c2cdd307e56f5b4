package database

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"certhub/backend/internal/model"
)

// EnsureDefaultAdmin 不存在任何管理员时创建默认管理员账号
// 首次部署后应立即修改默认密码
func EnsureDefaultAdmin(db *gorm.DB, logger *zap.Logger) error {
	var admin model.User
	err := db.Where("role = ?", model.RoleAdmin).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("查询管理员账号失败: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("密码哈希失败: %w", err)
	}

	admin = model.User{
		AccountID:    "admin001",
		Name:         "系统管理员",
		Role:         model.RoleAdmin,
		Department:   "教务处",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		CreatedBy:    model.CreatedBySystem,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("创建默认管理员失败: %w", err)
	}

	logger.Info("默认管理员账号已创建", zap.String("account_id", admin.AccountID))
	return nil
}
