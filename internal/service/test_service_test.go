package service

import (
	"testing"

	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCategoryWithTopics(t *testing.T, env *testEnv) (*model.ExamCategory, []model.Topic) {
	t.Helper()
	category := &model.ExamCategory{Name: "物理", Slug: model.GenerateUUID()}
	require.NoError(t, env.db.Create(category).Error)

	topics := []model.Topic{
		{ExamCategoryID: category.ID, Name: "Mechanics"},
		{ExamCategoryID: category.ID, Name: "Optics"},
	}
	for i := range topics {
		require.NoError(t, env.db.Create(&topics[i]).Error)
	}
	return category, topics
}

func TestCreateQuestionWithOptionsAndTopics(t *testing.T) {
	env := newTestEnv(t)
	category, topics := seedCategoryWithTopics(t, env)

	test, err := env.content.CreateTest(TestRequest{
		ExamCategoryID: category.ID,
		Title:          "力学小测",
	})
	require.NoError(t, err)

	question, err := env.content.CreateQuestion(test.ID, QuestionRequest{
		QuestionText: "F=ma 中 m 表示什么?",
		Order:        1,
		Options: []OptionRequest{
			{OptionText: "质量", IsCorrect: true},
			{OptionText: "动量"},
		},
		TopicIDs: []uint{topics[0].ID},
	})
	require.NoError(t, err)

	require.Len(t, question.Options, 2)
	require.Len(t, question.Topics, 1)
	assert.Equal(t, "Mechanics", question.Topics[0].Name)
}

func TestUpdateQuestionReconcilesOptions(t *testing.T) {
	env := newTestEnv(t)
	category, topics := seedCategoryWithTopics(t, env)

	test, err := env.content.CreateTest(TestRequest{ExamCategoryID: category.ID, Title: "小测"})
	require.NoError(t, err)

	question, err := env.content.CreateQuestion(test.ID, QuestionRequest{
		QuestionText: "原题干",
		Options: []OptionRequest{
			{OptionText: "保留并改写", IsCorrect: false},
			{OptionText: "将被删除", IsCorrect: true},
		},
		TopicIDs: []uint{topics[0].ID},
	})
	require.NoError(t, err)
	keptID := question.Options[0].ID

	updated, err := env.content.UpdateQuestion(test.ID, question.ID, QuestionRequest{
		QuestionText: "新题干",
		Options: []OptionRequest{
			{ID: keptID, OptionText: "改写后", IsCorrect: true},
			{OptionText: "新增选项"},
		},
		TopicIDs: []uint{topics[1].ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "新题干", updated.QuestionText)
	require.Len(t, updated.Options, 2)

	byID := make(map[uint]model.Option, len(updated.Options))
	for _, o := range updated.Options {
		byID[o.ID] = o
	}
	kept, ok := byID[keptID]
	require.True(t, ok, "带 id 的选项应原位更新而不是重建")
	assert.Equal(t, "改写后", kept.OptionText)
	assert.True(t, kept.IsCorrect)

	// topic 关联整组替换
	require.Len(t, updated.Topics, 1)
	assert.Equal(t, "Optics", updated.Topics[0].Name)

	// 未出现在请求中的旧选项被删除
	var count int64
	require.NoError(t, env.db.Model(&model.Option{}).Where("question_id = ?", question.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestUpdateQuestionRejectsForeignTest(t *testing.T) {
	env := newTestEnv(t)
	category, _ := seedCategoryWithTopics(t, env)

	testA, err := env.content.CreateTest(TestRequest{ExamCategoryID: category.ID, Title: "A"})
	require.NoError(t, err)
	testB, err := env.content.CreateTest(TestRequest{ExamCategoryID: category.ID, Title: "B"})
	require.NoError(t, err)

	question, err := env.content.CreateQuestion(testA.ID, QuestionRequest{QuestionText: "题"})
	require.NoError(t, err)

	_, err = env.content.UpdateQuestion(testB.ID, question.ID, QuestionRequest{QuestionText: "改"})
	assert.ErrorIs(t, err, util.ErrQuestionNotInTest)
}

func TestGetStudentContentOrdersQuestions(t *testing.T) {
	env := newTestEnv(t)
	test := env.seedTest(t, true, 30)

	_, questions, err := env.content.GetStudentContent(test.ID)
	require.NoError(t, err)

	require.Len(t, questions, 2)
	assert.Equal(t, 1, questions[0].Order)
	assert.Equal(t, 2, questions[1].Order)
	for _, q := range questions {
		assert.NotEmpty(t, q.Options)
	}
}

func TestGetStudentContentRejectsUnpublished(t *testing.T) {
	env := newTestEnv(t)
	test := env.seedTest(t, false, 30)

	_, _, err := env.content.GetStudentContent(test.ID)
	assert.ErrorIs(t, err, util.ErrTestNotPublished)
}

func TestPublishInvalidatesNothingWithoutRedis(t *testing.T) {
	env := newTestEnv(t)
	test := env.seedTest(t, false, 30)

	require.NoError(t, env.content.SetPublished(test.ID, true))

	loaded, err := env.content.GetTest(test.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsPublished)
}
