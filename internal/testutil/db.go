// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"geolog/internal/database"
	"geolog/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory database that lives as long as the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser inserts an enabled user with roles and, when department is set,
// an employee record.
func SeedUser(t *testing.T, db *gorm.DB, id, fullName, department string, roles ...string) *models.User {
	t.Helper()
	u := &models.User{ID: id, Email: id, FullName: fullName, FirstName: fullName, UserImage: "/files/" + id + ".png", Enabled: true}
	for _, r := range roles {
		u.Roles = append(u.Roles, models.UserRole{Role: r})
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	if department != "" {
		e := &models.Employee{
			ID:           "EMP-" + id,
			UserID:       id,
			EmployeeName: fullName,
			Designation:  "Field Officer",
			Department:   department,
			Company:      "Acme",
			Status:       "Active",
		}
		if err := db.Create(e).Error; err != nil {
			t.Fatalf("seed employee %s: %v", id, err)
		}
	}
	return u
}

// StepClock returns a clock function that starts at start and advances by
// step on every call.
func StepClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(step)
		return t
	}
}

// Ctx is a background context with a generous deadline.
func Ctx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
