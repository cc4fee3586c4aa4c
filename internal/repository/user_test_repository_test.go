package repository

import (
	"testing"
	"time"

	"exam_prep_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteIfInProgressWinsOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserTestRepository(db)
	attempt := seedAttempt(t, db, 30)

	now := time.Now()
	won, err := repo.CompleteIfInProgress(attempt.ID, 8, 80, now, 600)
	require.NoError(t, err)
	assert.True(t, won)

	// 已完成的尝试不会被第二条提交路径改写
	won, err = repo.CompleteIfInProgress(attempt.ID, 2, 20, now.Add(time.Second), 999)
	require.NoError(t, err)
	assert.False(t, won)

	completed, err := repo.FindByID(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptStatusCompleted, completed.Status)
	require.NotNil(t, completed.Score)
	assert.Equal(t, 8, *completed.Score)
	require.NotNil(t, completed.TimeSpentSeconds)
	assert.Equal(t, 600, *completed.TimeSpentSeconds)
}

func TestCountCompletedByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserTestRepository(db)
	attempt := seedAttempt(t, db, 30)

	count, err := repo.CountCompletedByUser(attempt.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	_, err = repo.CompleteIfInProgress(attempt.ID, 1, 100, time.Now(), 60)
	require.NoError(t, err)

	count, err = repo.CountCompletedByUser(attempt.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFindExpiredInProgress(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserTestRepository(db)

	expired := seedAttempt(t, db, 1)
	require.NoError(t, db.Model(&model.UserTest{}).Where("id = ?", expired.ID).
		Update("start_time", time.Now().Add(-5*time.Minute)).Error)

	active := seedAttempt(t, db, 60)
	untimed := seedAttempt(t, db, 0)
	_ = active
	_ = untimed

	rows, err := repo.FindExpiredInProgress(time.Now())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, expired.ID, rows[0].ID)
	require.NotNil(t, rows[0].Test)
	assert.Equal(t, 1, rows[0].Test.DurationMinutes)
}

func TestFindExpiredInProgressIgnoresCompleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserTestRepository(db)

	attempt := seedAttempt(t, db, 1)
	require.NoError(t, db.Model(&model.UserTest{}).Where("id = ?", attempt.ID).
		Update("start_time", time.Now().Add(-5*time.Minute)).Error)
	_, err := repo.CompleteIfInProgress(attempt.ID, 1, 100, time.Now(), 60)
	require.NoError(t, err)

	rows, err := repo.FindExpiredInProgress(time.Now())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
