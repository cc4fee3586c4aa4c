package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/pkg/database"
	"exam_prep_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

var dbCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// testEnv 按真实装配方式组合全部服务，底层换成内存数据库
type testEnv struct {
	db       *gorm.DB
	users    *repository.UserRepository
	attempts *repository.UserTestRepository
	badges   *BadgeService
	progress *ProgressService
	content  *TestService
	session  *SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewExamCategoryRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	testRepo := repository.NewTestRepository(db)
	attemptRepo := repository.NewUserTestRepository(db)
	responseRepo := repository.NewUserResponseRepository(db)
	progressRepo := repository.NewUserProgressRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)

	badges := NewBadgeService(badgeRepo)
	progress := NewProgressService(progressRepo, attemptRepo, userRepo, badges)
	content := NewTestService(testRepo, categoryRepo, topicRepo, nil, nil, db)
	session := NewSessionService(testRepo, attemptRepo, responseRepo, progress, content, db)

	return &testEnv{
		db:       db,
		users:    userRepo,
		attempts: attemptRepo,
		badges:   badges,
		progress: progress,
		content:  content,
		session:  session,
	}
}

func (e *testEnv) seedUser(t *testing.T) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "张三",
		Email:    fmt.Sprintf("user%d@example.com", atomic.AddInt64(&dbCounter, 1)),
		Password: "hashed",
		Role:     model.Student,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

// seedTest 植入一套两题的测试：
// 第 1 题挂 Algebra topic，第 2 题挂 Geometry topic，每题两个选项各一个正确。
func (e *testEnv) seedTest(t *testing.T, published bool, durationMinutes int) *model.Test {
	t.Helper()

	category := &model.ExamCategory{Name: "数学", Slug: fmt.Sprintf("math-%d", atomic.AddInt64(&dbCounter, 1))}
	require.NoError(t, e.db.Create(category).Error)

	algebra := &model.Topic{ExamCategoryID: category.ID, Name: "Algebra"}
	geometry := &model.Topic{ExamCategoryID: category.ID, Name: "Geometry"}
	require.NoError(t, e.db.Create(algebra).Error)
	require.NoError(t, e.db.Create(geometry).Error)

	test := &model.Test{
		ExamCategoryID:  category.ID,
		Title:           "模拟测试",
		DurationMinutes: durationMinutes,
		IsPublished:     published,
	}
	require.NoError(t, e.db.Create(test).Error)

	q1 := &model.Question{TestID: test.ID, QuestionText: "1+1=?", Order: 1, Topics: []model.Topic{*algebra}}
	require.NoError(t, e.db.Create(q1).Error)
	require.NoError(t, e.db.Create(&model.Option{QuestionID: q1.ID, OptionText: "2", IsCorrect: true}).Error)
	require.NoError(t, e.db.Create(&model.Option{QuestionID: q1.ID, OptionText: "3"}).Error)

	q2 := &model.Question{TestID: test.ID, QuestionText: "三角形内角和?", Order: 2, Topics: []model.Topic{*geometry}}
	require.NoError(t, e.db.Create(q2).Error)
	require.NoError(t, e.db.Create(&model.Option{QuestionID: q2.ID, OptionText: "90"}).Error)
	require.NoError(t, e.db.Create(&model.Option{QuestionID: q2.ID, OptionText: "180", IsCorrect: true}).Error)

	loaded, err := repository.NewTestRepository(e.db).FindByIDWithContent(test.ID)
	require.NoError(t, err)
	return loaded
}

// correctOption 返回题目中标记正确的选项
func correctOption(t *testing.T, q model.Question) *model.Option {
	t.Helper()
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	t.Fatalf("question %d has no correct option", q.ID)
	return nil
}

func wrongOption(t *testing.T, q model.Question) *model.Option {
	t.Helper()
	for i := range q.Options {
		if !q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	t.Fatalf("question %d has no wrong option", q.ID)
	return nil
}

func daysAgo(n int) *time.Time {
	d := time.Now().AddDate(0, 0, -n)
	return &d
}
