package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"certhub/backend/config"
	"certhub/backend/internal/dto"
	"certhub/backend/internal/model"
	"certhub/backend/internal/repository"
	"certhub/backend/pkg/jwt"
	"certhub/backend/pkg/validate"
)

// ── 测试辅助 ──

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-for-auth-tests",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 7 * 24 * time.Hour,
		},
	}
}

func setupTestAuthService() (AuthService, *mockUserRepo, *jwt.Manager) {
	userRepo := newMockUserRepo()
	repo := &repository.Repository{
		User:         userRepo,
		Certificate:  newMockCertificateRepo(),
		FileRecord:   newMockFileRecordRepo(),
		SystemConfig: newMockSystemConfigRepo(),
	}
	cfg := testAuthConfig()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, userRepo, jwtMgr
}

func seedLoginUser(repo *mockUserRepo, accountID, password string, active bool) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:       "uid-" + accountID,
		AccountID:    accountID,
		Name:         "测试用户",
		Role:         model.RoleStudent,
		Department:   "计算机学院",
		Email:        accountID + "@test.com",
		PasswordHash: string(hash),
		IsActive:     active,
	}
	repo.users[user.UserID] = user
	return user
}

// ── Register 测试 ──

func TestAuthService_Register_Success(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		AccountID:  "2021123456789",
		Name:       "张三",
		Role:       model.RoleStudent,
		Department: "计算机学院",
		Email:      "zs@test.com",
		Password:   "pass1234",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if resp.AccountID != "2021123456789" {
		t.Errorf("期望账号回显，实际 %q", resp.AccountID)
	}

	user, err := userRepo.GetByAccountID(context.Background(), "2021123456789")
	if err != nil {
		t.Fatalf("注册用户应存在: %v", err)
	}
	if user.CreatedBy != model.CreatedBySelfRegister {
		t.Errorf("期望 created_by=self_register，实际 %s", user.CreatedBy)
	}
	if !user.IsActive {
		t.Error("新注册账号应为启用状态")
	}
}

func TestAuthService_Register_BadAccountID(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	// 教师工号必须为 8 位
	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		AccountID:  "123",
		Name:       "李老师",
		Role:       model.RoleTeacher,
		Department: "外国语学院",
		Email:      "lls@test.com",
		Password:   "pass1234",
	})
	if !errors.Is(err, validate.ErrTeacherIDLength) {
		t.Errorf("期望 ErrTeacherIDLength，实际: %v", err)
	}
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		AccountID:  "2021123456789",
		Name:       "张三",
		Role:       model.RoleStudent,
		Department: "计算机学院",
		Email:      "zs@test.com",
		Password:   "12345678", // 纯数字
	})
	if !errors.Is(err, validate.ErrPasswordTooWeak) {
		t.Errorf("期望 ErrPasswordTooWeak，实际: %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seedLoginUser(userRepo, "2021123456789", "pass1234", true)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		AccountID:  "2021123456789",
		Name:       "张三",
		Role:       model.RoleStudent,
		Department: "计算机学院",
		Email:      "other@test.com",
		Password:   "pass1234",
	})
	if !errors.Is(err, ErrAccountIDTaken) {
		t.Errorf("期望 ErrAccountIDTaken，实际: %v", err)
	}

	_, err = svc.Register(context.Background(), &dto.RegisterRequest{
		AccountID:  "2021123456780",
		Name:       "李四",
		Role:       model.RoleStudent,
		Department: "计算机学院",
		Email:      "2021123456789@test.com",
		Password:   "pass1234",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

// ── Login 测试 ──

func TestAuthService_Login_Success(t *testing.T) {
	svc, userRepo, jwtMgr := setupTestAuthService()
	seedLoginUser(userRepo, "2021123456789", "pass1234", true)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		AccountID: "2021123456789",
		Password:  "pass1234",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("应返回 Token 对")
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("期望 expires_in=900，实际 %d", resp.ExpiresIn)
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("AccessToken 应可解析: %v", err)
	}
	if claims.AccountID != "2021123456789" || claims.Role != model.RoleStudent {
		t.Errorf("Claims 内容异常: %+v", claims)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 token_type=access，实际 %s", claims.TokenType)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seedLoginUser(userRepo, "2021123456789", "pass1234", true)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		AccountID: "2021123456789",
		Password:  "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownAccount(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		AccountID: "0000000000000",
		Password:  "pass1234",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_Disabled(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seedLoginUser(userRepo, "2021123456789", "pass1234", false)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		AccountID: "2021123456789",
		Password:  "pass1234",
	})
	if !errors.Is(err, ErrUserDisabled) {
		t.Errorf("期望 ErrUserDisabled，实际: %v", err)
	}
}

// ── RefreshToken 测试 ──

func TestAuthService_RefreshToken_Success(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seedLoginUser(userRepo, "2021123456789", "pass1234", true)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		AccountID: "2021123456789",
		Password:  "pass1234",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("应签发新的 AccessToken")
	}
}

func TestAuthService_RefreshToken_AccessTokenRejected(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	seedLoginUser(userRepo, "2021123456789", "pass1234", true)

	login, _ := svc.Login(context.Background(), &dto.LoginRequest{
		AccountID: "2021123456789",
		Password:  "pass1234",
	})

	// 用 AccessToken 换新应被拒绝
	_, err := svc.RefreshToken(context.Background(), &dto.RefreshTokenRequest{
		RefreshToken: login.AccessToken,
	})
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Errorf("期望 ErrRefreshInvalid，实际: %v", err)
	}
}

// ── ChangePassword 测试 ──

func TestAuthService_ChangePassword(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	user := seedLoginUser(userRepo, "2021123456789", "pass1234", true)

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "pass1234",
		NewPassword: "newpass99",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpass99")) != nil {
		t.Error("新密码应生效")
	}
}

func TestAuthService_ChangePassword_WrongOld(t *testing.T) {
	svc, userRepo, _ := setupTestAuthService()
	user := seedLoginUser(userRepo, "2021123456789", "pass1234", true)

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "newpass99",
	})
	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，实际: %v", err)
	}
}
