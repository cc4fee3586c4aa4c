package model

import (
	"encoding/json"
	"time"
)

// UserProgress 按 (用户, 考试类别) 维护的长期统计，一行一个组合
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID                uint            `gorm:"uniqueIndex:idx_user_category;type:bigint unsigned;not null" json:"userId"`
	ExamCategoryID        uint            `gorm:"uniqueIndex:idx_user_category;type:bigint unsigned;not null" json:"examCategoryId"`
	TestsCompleted        int             `gorm:"default:0" json:"testsCompleted"`
	AverageScore          float64         `gorm:"default:0" json:"averageScore"`
	TotalTimeSpentSeconds int             `gorm:"default:0" json:"totalTimeSpentSeconds"`
	Strengths             json.RawMessage `gorm:"type:json" json:"strengths"`  // topic 名称数组，正确率 >= 70%
	Weaknesses            json.RawMessage `gorm:"type:json" json:"weaknesses"` // topic 名称数组，正确率 < 70%
	LastActivityDate      time.Time       `json:"lastActivityDate"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

// StrengthNames 反序列化强项列表，内容为空时返回 nil
func (p *UserProgress) StrengthNames() []string {
	return decodeNames(p.Strengths)
}

// WeaknessNames 反序列化弱项列表
func (p *UserProgress) WeaknessNames() []string {
	return decodeNames(p.Weaknesses)
}

func decodeNames(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil
	}
	return names
}
