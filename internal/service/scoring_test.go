package service

import (
	"testing"

	"exam_prep_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func twoQuestionSet() []model.Question {
	return []model.Question{
		{
			BaseModel: model.BaseModel{ID: 1},
			Options: []model.Option{
				{BaseModel: model.BaseModel{ID: 11}, IsCorrect: true},
				{BaseModel: model.BaseModel{ID: 12}},
			},
		},
		{
			BaseModel: model.BaseModel{ID: 2},
			Options: []model.Option{
				{BaseModel: model.BaseModel{ID: 21}},
				{BaseModel: model.BaseModel{ID: 22}, IsCorrect: true},
			},
		},
	}
}

func TestScoreAttempt(t *testing.T) {
	tests := []struct {
		name           string
		questions      []model.Question
		responses      []model.UserResponse
		wantScore      int
		wantTotal      int
		wantPercentage float64
	}{
		{
			name:      "one of two correct",
			questions: twoQuestionSet(),
			responses: []model.UserResponse{
				{BaseModel: model.BaseModel{ID: 100}, QuestionID: 1, SelectedOptionID: uintPtr(11)},
				{BaseModel: model.BaseModel{ID: 101}, QuestionID: 2, SelectedOptionID: uintPtr(21)},
			},
			wantScore:      1,
			wantTotal:      2,
			wantPercentage: 50,
		},
		{
			name:      "all correct",
			questions: twoQuestionSet(),
			responses: []model.UserResponse{
				{QuestionID: 1, SelectedOptionID: uintPtr(11)},
				{QuestionID: 2, SelectedOptionID: uintPtr(22)},
			},
			wantScore:      2,
			wantTotal:      2,
			wantPercentage: 100,
		},
		{
			name:      "unanswered counts against total",
			questions: twoQuestionSet(),
			responses: []model.UserResponse{
				{QuestionID: 1, SelectedOptionID: uintPtr(11)},
				{QuestionID: 2},
			},
			wantScore:      1,
			wantTotal:      2,
			wantPercentage: 50,
		},
		{
			name:           "no questions yields zero percentage",
			questions:      nil,
			responses:      nil,
			wantScore:      0,
			wantTotal:      0,
			wantPercentage: 0,
		},
		{
			name:      "response to unknown question is ignored",
			questions: twoQuestionSet(),
			responses: []model.UserResponse{
				{QuestionID: 99, SelectedOptionID: uintPtr(11)},
			},
			wantScore:      0,
			wantTotal:      2,
			wantPercentage: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ScoreAttempt(tc.questions, tc.responses)
			assert.Equal(t, tc.wantScore, got.Score)
			assert.Equal(t, tc.wantTotal, got.TotalPoints)
			assert.InDelta(t, tc.wantPercentage, got.Percentage, 0.001)
			assert.Len(t, got.Responses, len(tc.responses))
		})
	}
}

func TestScoreAttemptWeightedPoints(t *testing.T) {
	questions := twoQuestionSet()
	questions[0].Points = 3 // 第二题保持默认 1 分

	responses := []model.UserResponse{
		{QuestionID: 1, SelectedOptionID: uintPtr(11)},
		{QuestionID: 2, SelectedOptionID: uintPtr(21)},
	}

	got := ScoreAttempt(questions, responses)
	assert.Equal(t, 3, got.Score)
	assert.Equal(t, 4, got.TotalPoints)
	assert.InDelta(t, 75, got.Percentage, 0.001)
}

func TestScoreAttemptDeterministic(t *testing.T) {
	questions := twoQuestionSet()
	responses := []model.UserResponse{
		{BaseModel: model.BaseModel{ID: 1}, QuestionID: 1, SelectedOptionID: uintPtr(11)},
		{BaseModel: model.BaseModel{ID: 2}, QuestionID: 2, SelectedOptionID: uintPtr(22)},
	}

	first := ScoreAttempt(questions, responses)
	second := ScoreAttempt(questions, responses)
	assert.Equal(t, first, second)
}

func TestScoreAttemptMarksCorrectness(t *testing.T) {
	questions := twoQuestionSet()
	responses := []model.UserResponse{
		{BaseModel: model.BaseModel{ID: 1}, QuestionID: 1, SelectedOptionID: uintPtr(11)},
		{BaseModel: model.BaseModel{ID: 2}, QuestionID: 2, SelectedOptionID: uintPtr(21)},
	}

	got := ScoreAttempt(questions, responses)
	assert.True(t, got.Responses[0].IsCorrect)
	assert.False(t, got.Responses[1].IsCorrect)
	assert.Equal(t, uint(1), got.Responses[0].ResponseID)
	assert.Equal(t, uint(2), got.Responses[1].ResponseID)
}
