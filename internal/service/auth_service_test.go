package service_test

import (
	"errors"
	"testing"
	"time"

	"geolog/config"
	"geolog/internal/auth"
	"geolog/internal/domain"
	"geolog/internal/models"
	"geolog/internal/repository"
	"geolog/internal/service"
	"geolog/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) (*service.AuthService, *config.JWTConfig) {
	t.Helper()
	db := testutil.NewDB(t)
	u := testutil.SeedUser(t, db, "jane@example.com", "Jane", "", domain.RoleEmployee, domain.RoleHRManager)
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Model(u).Update("password_hash", string(hash)).Error; err != nil {
		t.Fatal(err)
	}
	users := repository.NewUserRepository(db)
	off := &models.User{ID: "off@example.com", Email: "off@example.com", FullName: "Off", PasswordHash: string(hash), Enabled: false}
	if err := users.Create(testutil.Ctx(t), off); err != nil {
		t.Fatal(err)
	}
	cfg := &config.JWTConfig{
		AccessSecret:  "a",
		RefreshSecret: "r",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "test",
	}
	return service.NewAuthService(cfg, users), cfg
}

func TestLogin(t *testing.T) {
	svc, cfg := newAuthService(t)
	u, tokens, err := svc.Login(testutil.Ctx(t), " Jane@Example.com ", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != "jane@example.com" {
		t.Errorf("user = %s", u.ID)
	}
	claims, err := auth.ParseAccessToken(cfg, tokens.AccessToken)
	if err != nil {
		t.Fatalf("access token: %v", err)
	}
	if claims.SessionID() != tokens.SessionID || len(claims.Roles) != 2 {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginRejects(t *testing.T) {
	svc, _ := newAuthService(t)
	tests := []struct {
		email, password string
		want            error
	}{
		{"jane@example.com", "wrong", service.ErrInvalidCreds},
		{"nobody@example.com", "s3cret", service.ErrInvalidCreds},
		{"off@example.com", "s3cret", service.ErrAccountDisabled},
	}
	for _, tt := range tests {
		if _, _, err := svc.Login(testutil.Ctx(t), tt.email, tt.password); !errors.Is(err, tt.want) {
			t.Errorf("Login(%s) err = %v, want %v", tt.email, err, tt.want)
		}
	}
}

func TestRefreshKeepsSession(t *testing.T) {
	svc, _ := newAuthService(t)
	_, first, err := svc.Login(testutil.Ctx(t), "jane@example.com", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	next, err := svc.Refresh(testutil.Ctx(t), first.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.SessionID != first.SessionID {
		t.Errorf("session changed: %s -> %s", first.SessionID, next.SessionID)
	}
	if _, err := svc.Refresh(testutil.Ctx(t), first.AccessToken); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("access token accepted for refresh: %v", err)
	}
}
