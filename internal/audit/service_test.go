package audit

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	audit_repo "github.com/mrlokans/librarian/internal/database/audit"
	"github.com/mrlokans/librarian/internal/entities"
)

func setupTestService(t *testing.T) (*Service, func()) {
	dbPath := "./test_audit_service_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return NewService(audit_repo.NewRepository(db)), cleanup
}

func TestService_LogAuth(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	service.LogAuth(42, "login", "10.0.0.1", "test-agent", true)
	service.LogAuth(0, "login", "10.0.0.1", "test-agent", false)

	// Events are written in the background
	require.Eventually(t, func() bool {
		events, err := service.Recent(10)
		return err == nil && len(events) == 2
	}, 2*time.Second, 10*time.Millisecond)

	events, err := service.Recent(10)
	require.NoError(t, err)

	byStatus := map[entities.AuditStatus]entities.AuditEvent{}
	for _, e := range events {
		byStatus[e.Status] = e
	}

	success := byStatus[entities.AuditStatusSuccess]
	assert.Equal(t, uint(42), success.UserID)
	assert.Equal(t, "login", success.Action)
	assert.Equal(t, entities.AuditEventAuth, success.EventType)

	failed := byStatus[entities.AuditStatusFailed]
	assert.Zero(t, failed.UserID)
}

func TestService_LogBookAdded(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	service.LogBookAdded(1, 7, "Solaris")

	require.Eventually(t, func() bool {
		events, err := service.Recent(10)
		return err == nil && len(events) == 1
	}, 2*time.Second, 10*time.Millisecond)

	events, err := service.Recent(10)
	require.NoError(t, err)
	assert.Equal(t, entities.AuditEventInventory, events[0].EventType)
	assert.Equal(t, "book_add", events[0].Action)
	assert.Contains(t, events[0].Description, "Solaris")
}

func TestService_NilServiceIsSafe(t *testing.T) {
	var service *Service

	service.LogAuth(1, "login", "10.0.0.1", "", true)
	service.LogBookAdded(1, 1, "Solaris")

	events, err := service.Recent(10)
	assert.NoError(t, err)
	assert.Empty(t, events)

	deleted, err := service.DeleteOldEvents(time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, deleted)
}
