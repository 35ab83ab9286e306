package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"campus-cafe/backend/config"
	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/repository"
	"campus-cafe/backend/pkg/jwt"
)

// ── 测试辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-0123456789",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 168 * time.Hour,
		},
		Cafe: config.CafeConfig{
			Universities: []string{"Test uni", "University of Exeter"},
		},
	}
}

func setupTestAuthService() (AuthService, *mockUserRepo) {
	cfg := testConfig()
	userRepo := newMockUserRepo()
	repo := &repository.Repository{
		User:  userRepo,
		Table: newMockTableRepo(userRepo),
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, userRepo
}

func validRegisterRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:       "xiaoming@test.com",
		Password:    "password123",
		FirstName:   "小明",
		LastName:    "张",
		University:  "Test uni",
		AcceptTerms: true,
	}
}

// ── Register 测试 ──

func TestRegister_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()

	tokens, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("注册后应直接下发 Token 对")
	}
	if tokens.User.Email != "xiaoming@test.com" {
		t.Errorf("期望邮箱回显，实际 %s", tokens.User.Email)
	}

	stored, err := userRepo.GetByEmail(context.Background(), "xiaoming@test.com")
	if err != nil {
		t.Fatalf("注册后应能按邮箱查到用户: %v", err)
	}
	if stored.PasswordHash == "password123" {
		t.Error("密码不能以明文存储")
	}
	if !stored.ShareTables {
		t.Error("共享开关默认应为开启")
	}
}

func TestRegister_UniversityNotAllowed(t *testing.T) {
	svc, _ := setupTestAuthService()

	req := validRegisterRequest()
	req.University = "Unknown uni"
	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrInvalidUniversity) {
		t.Errorf("白名单外的大学应拒绝，实际: %v", err)
	}
}

func TestRegister_TermsNotAccepted(t *testing.T) {
	svc, _ := setupTestAuthService()

	req := validRegisterRequest()
	req.AcceptTerms = false
	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrTermsNotAccepted) {
		t.Errorf("未接受条款应拒绝，实际: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := setupTestAuthService()

	if _, err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("首次注册应成功: %v", err)
	}
	_, err := svc.Register(context.Background(), validRegisterRequest())
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("重复邮箱应拒绝，实际: %v", err)
	}
}

// ── Login 测试 ──

func TestLogin_Success(t *testing.T) {
	svc, _ := setupTestAuthService()
	if _, err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	tokens, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "xiaoming@test.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if tokens.AccessToken == "" {
		t.Error("登录应下发 AccessToken")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := setupTestAuthService()
	if _, err := svc.Register(context.Background(), validRegisterRequest()); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "xiaoming@test.com", Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("密码错误应拒绝，实际: %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "nobody@test.com", Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("未注册邮箱与密码错误应返回同一错误，实际: %v", err)
	}
}

// ── RefreshToken 测试 ──

func TestRefreshToken_Success(t *testing.T) {
	svc, _ := setupTestAuthService()
	tokens, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新应下发新的 AccessToken")
	}
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	svc, _ := setupTestAuthService()
	tokens, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// Access Token 不能当 Refresh Token 用
	_, err = svc.RefreshToken(context.Background(), tokens.AccessToken)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("用 AccessToken 刷新应拒绝，实际: %v", err)
	}
}

// ── ChangePassword 测试 ──

func TestChangePassword_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService()
	tokens, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	err = svc.ChangePassword(context.Background(), tokens.User.ID, &dto.ChangePasswordRequest{
		OldPassword: "password123", NewPassword: "new-password-456",
	})
	if err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	stored := userRepo.users[tokens.User.ID]
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password-456")) != nil {
		t.Error("新密码应立即生效")
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	svc, _ := setupTestAuthService()
	tokens, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	err = svc.ChangePassword(context.Background(), tokens.User.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "new-password-456",
	})
	if !errors.Is(err, ErrWrongOldPassword) {
		t.Errorf("原密码错误应拒绝，实际: %v", err)
	}
}

// ── Logout 测试 ──

func TestLogout_NoRedisDegrades(t *testing.T) {
	svc, _ := setupTestAuthService()

	// Redis 为 nil 时登出不报错（Token 等待自然过期）
	err := svc.Logout(context.Background(), "some-jti", time.Now().Add(10*time.Minute))
	if err != nil {
		t.Errorf("无 Redis 时登出应降级成功，实际: %v", err)
	}
}
