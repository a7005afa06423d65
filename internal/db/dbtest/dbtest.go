// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"regexp"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"fieldbook/internal/db"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// New returns a migrated sqlite database private to t. The pool is capped at a
// single connection so transactions serialize the way row locks would on a
// server database.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + unsafeChars.ReplaceAllString(t.Name(), "_") + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}
