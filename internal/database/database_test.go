package database_test

import (
	"testing"

	"geolog/config"
	"geolog/internal/database"
	"geolog/internal/domain"
	"geolog/internal/repository"
	"geolog/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	ctx := testutil.Ctx(t)
	cfg := &config.AdminConfig{Email: " Admin@Example.com ", Password: "changeme", FullName: "Site Admin"}

	if err := database.SeedAdmin(ctx, users, cfg); err != nil {
		t.Fatalf("seed: %v", err)
	}
	u, err := users.GetByID(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !u.Enabled || u.FirstName != "Site" {
		t.Errorf("unexpected admin %+v", u)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("changeme")) != nil {
		t.Error("password hash does not match")
	}
	roles, err := users.Roles(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if len(roles) != 2 || roles[0] != domain.RoleAdministrator || roles[1] != domain.RoleSystemManager {
		t.Errorf("roles = %v", roles)
	}

	// a second run leaves the populated table alone
	cfg.Email = "other@example.com"
	if err := database.SeedAdmin(ctx, users, cfg); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if n, _ := users.Count(ctx); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestSeedAdminSkipsWithoutPassword(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	ctx := testutil.Ctx(t)

	if err := database.SeedAdmin(ctx, users, &config.AdminConfig{Email: "admin@example.com"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n, _ := users.Count(ctx); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}
