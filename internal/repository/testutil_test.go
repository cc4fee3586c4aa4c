package repository

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"exam_prep_backend/internal/model"
	"exam_prep_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedAttempt(t *testing.T, db *gorm.DB, durationMinutes int) *model.UserTest {
	t.Helper()

	category := &model.ExamCategory{Name: "测试类别", Slug: fmt.Sprintf("cat-%d", atomic.AddInt64(&dbCounter, 1))}
	require.NoError(t, db.Create(category).Error)

	test := &model.Test{
		ExamCategoryID:  category.ID,
		Title:           "测试",
		DurationMinutes: durationMinutes,
		IsPublished:     true,
	}
	require.NoError(t, db.Create(test).Error)

	user := &model.User{
		Name:     "李四",
		Email:    fmt.Sprintf("repo%d@example.com", atomic.AddInt64(&dbCounter, 1)),
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)

	attempt := &model.UserTest{
		PublicID:  model.GenerateUUID(),
		UserID:    user.ID,
		TestID:    test.ID,
		Status:    model.AttemptStatusInProgress,
		StartTime: time.Now(),
	}
	require.NoError(t, db.Create(attempt).Error)
	return attempt
}
