package auth

import (
	"testing"
	"time"

	"geolog/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "geolog-test",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	sid := NewSessionID()
	tok, err := GenerateAccessToken(cfg, "jane@example.com", []string{"Employee"}, sid)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseAccessToken(cfg, tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "jane@example.com" || claims.SessionID() != sid {
		t.Errorf("claims = %+v", claims)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "Employee" {
		t.Errorf("roles = %v", claims.Roles)
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	tok, _ := GenerateAccessToken(cfg, "jane@example.com", nil, NewSessionID())
	other := testJWTConfig()
	other.AccessSecret = "other"
	if _, err := ParseAccessToken(other, tok); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessExpiry = -time.Minute
	tok, _ := GenerateAccessToken(cfg, "jane@example.com", nil, NewSessionID())
	if _, err := ParseAccessToken(cfg, tok); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	sid := NewSessionID()
	refresh, err := GenerateRefreshToken(cfg, "jane@example.com", sid)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseAccessToken(cfg, refresh); err == nil {
		t.Fatal("refresh token accepted as access token")
	}
	claims, err := ParseRefreshToken(cfg, refresh)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if claims.Subject != "jane@example.com" || claims.ID != sid {
		t.Errorf("claims = %+v", claims)
	}
}
