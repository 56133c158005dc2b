package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/campuseats/campuseats-backend/pkg/auth"
	"github.com/campuseats/campuseats-backend/pkg/config"
	"github.com/campuseats/campuseats-backend/pkg/db/models"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/security"
)

func TestServiceLoginSuccess(t *testing.T) {
	password := "Secret123!"
	hashed := mustHashPassword(t, password)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "lea@example.com",
		PasswordHash: hashed,
		FirstName:    "Léa",
		LastName:     "Martin",
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, sessionMgr := buildTestService(t, user, cfg)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Lea@Example.com ",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s in claims, got %s", user.ID, claims.UserID)
	}
	if claims.Email != user.Email {
		t.Fatalf("expected email claim %s, got %s", user.Email, claims.Email)
	}
	if claims.ID != sessionMgr.lastAccessID {
		t.Fatalf("jti %s does not match generated session %s", claims.ID, sessionMgr.lastAccessID)
	}
	if resp.RefreshToken != sessionMgr.refreshToken {
		t.Fatalf("unexpected refresh token %s", resp.RefreshToken)
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be stamped")
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "lea@example.com",
		PasswordHash: mustHashPassword(t, "correct-password"),
		IsActive:     true,
	}

	svc, _ := buildTestService(t, user, testJWTConfig())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	assertUnauthorized(t, err)
}

func TestServiceLoginUnknownEmail(t *testing.T) {
	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepo{err: gorm.ErrRecordNotFound},
		SessionManager: &stubSessionManager{},
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, loginErr := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assertUnauthorized(t, loginErr)
}

func TestServiceLoginInactiveUser(t *testing.T) {
	password := "Secret123!"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "blocked@example.com",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     false,
	}

	svc, _ := buildTestService(t, user, testJWTConfig())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	assertUnauthorized(t, err)
}

func buildTestService(t *testing.T, user *models.User, jwtCfg config.JWTConfig) (Service, *stubSessionManager) {
	t.Helper()
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       &stubUserRepo{user: user},
		SessionManager: sessionMgr,
		JWTConfig:      jwtCfg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, sessionMgr
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "campuseats",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected login to fail")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("expected generic credentials message, got %q", typed.Message())
	}
}

type stubUserRepo struct {
	user *models.User
	err  error
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken string
	lastAccessID string
	err          error
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lastAccessID = accessID
	return s.refreshToken, nil
}
