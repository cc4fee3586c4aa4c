package service

import (
	"exam_prep_backend/internal/model"
)

// ScoredResponse 单题判分结果
type ScoredResponse struct {
	ResponseID uint `json:"responseId"`
	QuestionID uint `json:"questionId"`
	IsCorrect  bool `json:"isCorrect"`
}

// ScoreResult 一次提交的判分汇总
type ScoreResult struct {
	Score       int              `json:"score"`
	TotalPoints int              `json:"totalPoints"`
	Percentage  float64          `json:"percentage"`
	Responses   []ScoredResponse `json:"responses"`
}

// ScoreAttempt 对一次尝试判分。纯函数，同样输入必然得到同样输出。
// 规则：选中选项在该题上标记 is_correct 即得该题分值；未作答一律记错；
// 总分按测试全部题目的分值累加（未答题也计入分母），分母为 0 时百分比为 0。
func ScoreAttempt(questions []model.Question, responses []model.UserResponse) ScoreResult {
	type questionKey struct {
		points  int
		options map[uint]bool
	}

	keys := make(map[uint]questionKey, len(questions))
	totalPoints := 0
	for _, q := range questions {
		options := make(map[uint]bool, len(q.Options))
		for _, o := range q.Options {
			options[o.ID] = o.IsCorrect
		}
		keys[q.ID] = questionKey{points: q.EffectivePoints(), options: options}
		totalPoints += q.EffectivePoints()
	}

	score := 0
	scored := make([]ScoredResponse, 0, len(responses))
	for _, r := range responses {
		isCorrect := false
		if key, ok := keys[r.QuestionID]; ok && r.SelectedOptionID != nil {
			if key.options[*r.SelectedOptionID] {
				isCorrect = true
				score += key.points
			}
		}
		scored = append(scored, ScoredResponse{
			ResponseID: r.ID,
			QuestionID: r.QuestionID,
			IsCorrect:  isCorrect,
		})
	}

	percentage := 0.0
	if totalPoints > 0 {
		percentage = float64(score) / float64(totalPoints) * 100
	}

	return ScoreResult{
		Score:       score,
		TotalPoints: totalPoints,
		Percentage:  percentage,
		Responses:   scored,
	}
}
