package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	AccountID  string `json:"account_id" binding:"required"`
	Password   string `json:"password"   binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RegisterRequest 自助注册请求（学生/教师）
type RegisterRequest struct {
	AccountID  string `json:"account_id" binding:"required"`
	Name       string `json:"name"       binding:"required,min=2,max=20"`
	Role       string `json:"role"       binding:"required,oneof=student teacher"`
	Department string `json:"department" binding:"required,min=2,max=100"`
	Email      string `json:"email"      binding:"required,email"`
	Password   string `json:"password"   binding:"required,min=8,max=64"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}
