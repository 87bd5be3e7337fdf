package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewTestDB creates a new in-memory SQLite database with every table migrated.
// Each call gets its own database; it is closed when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))

	db, err := mysql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := mysql.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
