package repository

import (
	"testing"

	"exam_prep_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertKeepsSingleRowPerQuestion(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserResponseRepository(db)
	attempt := seedAttempt(t, db, 30)

	optionA := uint(101)
	optionB := uint(102)

	first := &model.UserResponse{UserTestID: attempt.ID, QuestionID: 1, SelectedOptionID: &optionA}
	require.NoError(t, repo.Upsert(first))

	second := &model.UserResponse{UserTestID: attempt.ID, QuestionID: 1, SelectedOptionID: &optionB}
	require.NoError(t, repo.Upsert(second))

	// 覆盖写入后保留首次创建的行
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.SelectedOptionID)
	assert.Equal(t, optionB, *second.SelectedOptionID)

	count, err := repo.CountByAttempt(attempt.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUpsertClearsSelection(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserResponseRepository(db)
	attempt := seedAttempt(t, db, 30)

	option := uint(101)
	require.NoError(t, repo.Upsert(&model.UserResponse{UserTestID: attempt.ID, QuestionID: 1, SelectedOptionID: &option}))
	require.NoError(t, repo.Upsert(&model.UserResponse{UserTestID: attempt.ID, QuestionID: 1}))

	stored, err := repo.FindByAttemptAndQuestion(attempt.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, stored.SelectedOptionID)
}

func TestSetCorrectness(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserResponseRepository(db)
	attempt := seedAttempt(t, db, 30)

	resp := &model.UserResponse{UserTestID: attempt.ID, QuestionID: 1}
	require.NoError(t, repo.Upsert(resp))

	require.NoError(t, repo.SetCorrectness(resp.ID, true))

	stored, err := repo.FindByAttemptAndQuestion(attempt.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, stored.IsCorrect)
	assert.True(t, *stored.IsCorrect)

	// 幂等覆盖
	require.NoError(t, repo.SetCorrectness(resp.ID, false))
	stored, err = repo.FindByAttemptAndQuestion(attempt.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, stored.IsCorrect)
	assert.False(t, *stored.IsCorrect)
}

func TestFindByAttemptOrdersByQuestion(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserResponseRepository(db)
	attempt := seedAttempt(t, db, 30)

	require.NoError(t, repo.CreateBatch([]model.UserResponse{
		{UserTestID: attempt.ID, QuestionID: 3},
		{UserTestID: attempt.ID, QuestionID: 1},
		{UserTestID: attempt.ID, QuestionID: 2},
	}))

	rows, err := repo.FindByAttempt(attempt.ID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, uint(1), rows[0].QuestionID)
	assert.Equal(t, uint(2), rows[1].QuestionID)
	assert.Equal(t, uint(3), rows[2].QuestionID)
}
