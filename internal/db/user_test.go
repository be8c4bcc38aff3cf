package db

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:user-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return gdb
}

func TestCreateUserHashesPassword(t *testing.T) {
	gdb := setupUserTestDB(t)

	user, err := CreateUser(gdb, " admin ", "s3cret")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.Username != "admin" {
		t.Fatalf("expected trimmed username, got %q", user.Username)
	}
	if user.Password == "s3cret" {
		t.Fatal("expected password to be hashed")
	}
	if !user.CheckPassword("s3cret") || user.CheckPassword("wrong") {
		t.Fatal("password check mismatch")
	}

	if _, err := CreateUser(gdb, "admin", "other"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	gdb := setupUserTestDB(t)

	for i := 0; i < 2; i++ {
		if err := EnsureUser(gdb, "root", "pw"); err != nil {
			t.Fatalf("EnsureUser run %d: %v", i, err)
		}
	}
	if err := EnsureUser(gdb, "", ""); err != nil {
		t.Fatalf("empty credentials should be skipped: %v", err)
	}

	var count int64
	gdb.Model(&User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one user, got %d", count)
	}
}
