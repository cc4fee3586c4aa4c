package service

import (
	"testing"
	"time"

	"exam_prep_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func TestComputeTopicPerformance(t *testing.T) {
	algebra := model.Topic{BaseModel: model.BaseModel{ID: 1}, Name: "Algebra"}
	geometry := model.Topic{BaseModel: model.BaseModel{ID: 2}, Name: "Geometry"}

	questions := []model.Question{
		{BaseModel: model.BaseModel{ID: 1}, Topics: []model.Topic{algebra}},
		{BaseModel: model.BaseModel{ID: 2}, Topics: []model.Topic{algebra}},
		{BaseModel: model.BaseModel{ID: 3}, Topics: []model.Topic{geometry}},
		// 一题挂两个 topic 时两边都计数
		{BaseModel: model.BaseModel{ID: 4}, Topics: []model.Topic{algebra, geometry}},
	}
	responses := []model.UserResponse{
		{QuestionID: 1, IsCorrect: boolPtr(true)},
		{QuestionID: 2, IsCorrect: boolPtr(true)},
		{QuestionID: 3, IsCorrect: boolPtr(false)},
		{QuestionID: 4, IsCorrect: boolPtr(true)},
	}

	perf := ComputeTopicPerformance(questions, responses)

	require.Contains(t, perf, "Algebra")
	require.Contains(t, perf, "Geometry")
	assert.Equal(t, 3, perf["Algebra"].Total)
	assert.Equal(t, 3, perf["Algebra"].Correct)
	assert.InDelta(t, 100, perf["Algebra"].Percentage, 0.001)
	assert.Equal(t, 2, perf["Geometry"].Total)
	assert.Equal(t, 1, perf["Geometry"].Correct)
	assert.InDelta(t, 50, perf["Geometry"].Percentage, 0.001)
}

func TestSplitStrengthsWeaknesses(t *testing.T) {
	perf := map[string]*TopicPerformance{
		"Algebra":  {Total: 10, Correct: 7, Percentage: 70},
		"Geometry": {Total: 10, Correct: 6, Percentage: 60},
		"Calculus": {Total: 4, Correct: 4, Percentage: 100},
	}

	strengths, weaknesses := SplitStrengthsWeaknesses(perf)

	// 70% 是强项下界，输出按名称排序
	assert.Equal(t, []string{"Algebra", "Calculus"}, strengths)
	assert.Equal(t, []string{"Geometry"}, weaknesses)
}

func TestRecordResultRunningAverage(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	test := env.seedTest(t, true, 30)

	require.NoError(t, env.progress.RecordResult(user.ID, test, 7, 70, 300, test.Questions, nil))
	require.NoError(t, env.progress.RecordResult(user.ID, test, 10, 100, 200, test.Questions, nil))

	var progress model.UserProgress
	require.NoError(t, env.db.Where("user_id = ? AND exam_category_id = ?", user.ID, test.ExamCategoryID).
		First(&progress).Error)

	assert.Equal(t, 2, progress.TestsCompleted)
	assert.InDelta(t, 85, progress.AverageScore, 0.001)
	assert.Equal(t, 500, progress.TotalTimeSpentSeconds)
}

func TestRecordResultKeepsOneRowPerCategory(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	test := env.seedTest(t, true, 30)

	require.NoError(t, env.progress.RecordResult(user.ID, test, 5, 50, 100, test.Questions, nil))
	require.NoError(t, env.progress.RecordResult(user.ID, test, 5, 50, 100, test.Questions, nil))

	var count int64
	require.NoError(t, env.db.Model(&model.UserProgress{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTouchStreakFirstStudy(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	require.NoError(t, env.progress.TouchStreak(user.ID))

	refreshed, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.StreakDays)
	require.NotNil(t, refreshed.LastStudyDate)
}

func TestTouchStreakSameDayIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	require.NoError(t, env.progress.TouchStreak(user.ID))
	require.NoError(t, env.progress.TouchStreak(user.ID))

	refreshed, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.StreakDays)
}

func TestTouchStreakConsecutiveDay(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"streak_days":     3,
		"last_study_date": daysAgo(1),
	}).Error)

	require.NoError(t, env.progress.TouchStreak(user.ID))

	refreshed, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, refreshed.StreakDays)
}

func TestTouchStreakResetsAfterGap(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"streak_days":     10,
		"last_study_date": daysAgo(3),
	}).Error)

	require.NoError(t, env.progress.TouchStreak(user.ID))

	refreshed, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.StreakDays)
}

func TestTouchStreakAwardsStudyStreakBadge(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)

	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"streak_days":     6,
		"last_study_date": daysAgo(1),
	}).Error)

	require.NoError(t, env.progress.TouchStreak(user.ID))

	refreshed, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, refreshed.StreakDays)

	badges, err := env.badges.ListUserBadges(user.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, model.BadgeStudyStreak, badges[0].Badge.Name)
}

func TestRecordResultAwardsPerfectScore(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	test := env.seedTest(t, true, 30)

	require.NoError(t, env.progress.RecordResult(user.ID, test, 2, 100, 1200, test.Questions, nil))

	names := badgeNames(t, env, user.ID)
	assert.Contains(t, names, model.BadgePerfectScore)
	// 用时超过一半，不发 Speed Demon
	assert.NotContains(t, names, model.BadgeSpeedDemon)
}

func TestRecordResultAwardsSpeedDemon(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	test := env.seedTest(t, true, 30) // 30 分钟，半程 900 秒

	require.NoError(t, env.progress.RecordResult(user.ID, test, 1, 50, 600, test.Questions, nil))

	names := badgeNames(t, env, user.ID)
	assert.Contains(t, names, model.BadgeSpeedDemon)
	assert.NotContains(t, names, model.BadgePerfectScore)
}

func TestRecordResultNoSpeedDemonForUntimedTest(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t)
	test := env.seedTest(t, true, 0)

	require.NoError(t, env.progress.RecordResult(user.ID, test, 1, 50, 10, test.Questions, nil))

	names := badgeNames(t, env, user.ID)
	assert.NotContains(t, names, model.BadgeSpeedDemon)
}

func badgeNames(t *testing.T, env *testEnv, userID uint) []string {
	t.Helper()
	badges, err := env.badges.ListUserBadges(userID)
	require.NoError(t, err)
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		require.NotNil(t, b.Badge)
		names = append(names, b.Badge.Name)
	}
	return names
}

func TestDateOnlyStripsClock(t *testing.T) {
	ts := time.Date(2024, 5, 17, 23, 45, 12, 0, time.Local)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.Local), dateOnly(ts))
}
