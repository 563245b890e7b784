package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"classboard/backend/config"
	"classboard/backend/internal/dto"
	"classboard/backend/internal/model"
	"classboard/backend/internal/repository"
	"classboard/backend/pkg/jwt"
)

func setupTestAuthService(t *testing.T) (AuthService, *mockUserRepo) {
	t.Helper()
	userRepo := newMockUserRepo()
	repo := &repository.Repository{
		User:       userRepo,
		Assignment: newMockAssignmentRepo(),
		Class:      newMockClassRepo(),
		Teacher:    newMockTeacherRepo(),
		Subject:    newMockSubjectRepo(),
		Schedule:   newMockScheduleRepo(),
		Student:    newMockStudentRepo(),
		Attendance: newMockAttendanceRepo(),
	}
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-key-0123456789",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, userRepo
}

func seedUser(t *testing.T, userRepo *mockUserRepo, email, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user := &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	userRepo.Create(context.Background(), user)
	return user
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, userRepo := setupTestAuthService(t)
	seedUser(t, userRepo, "admin@school.edu", "correct-password", model.UserRoleAdmin)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@school.edu",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("应返回 token 对")
	}
	if resp.User.Role != model.UserRoleAdmin {
		t.Errorf("Role=%s", resp.User.Role)
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn=%d", resp.ExpiresIn)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, userRepo := setupTestAuthService(t)
	seedUser(t, userRepo, "admin@school.edu", "correct-password", model.UserRoleAdmin)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@school.edu",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@school.edu",
		Password: "whatever",
	})
	// 不区分"用户不存在"和"密码错误"，避免探测
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Refresh_WithAccessTokenRejected(t *testing.T) {
	svc, userRepo := setupTestAuthService(t)
	seedUser(t, userRepo, "admin@school.edu", "correct-password", model.UserRoleAdmin)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "admin@school.edu",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// 用 access token 换新应被拒绝
	_, err = svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.AccessToken})
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}

	// 正常 refresh token 可以
	if _, err := svc.Refresh(context.Background(), &dto.RefreshRequest{RefreshToken: login.RefreshToken}); err != nil {
		t.Errorf("合法 refresh 应成功: %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, userRepo := setupTestAuthService(t)
	user := seedUser(t, userRepo, "staff@school.edu", "old-password", model.UserRoleStaff)

	err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "new-password-123",
	})
	if !errors.Is(err, ErrWrongOldPassword) {
		t.Errorf("期望 ErrWrongOldPassword，实际: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "new-password-123",
	}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	// 新密码可登录
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "staff@school.edu",
		Password: "new-password-123",
	}); err != nil {
		t.Errorf("改密后应能登录: %v", err)
	}
}
