package model

// UserResponse 用户在一次测试中对单题的作答记录
// 唯一约束 (user_test_id, question_id)：重复保存走更新，不产生重复行
// swagger:model UserResponse
type UserResponse struct {
	BaseModel
	UserTestID       uint   `gorm:"uniqueIndex:idx_attempt_question;type:bigint unsigned;not null" json:"userTestId"`
	QuestionID       uint   `gorm:"uniqueIndex:idx_attempt_question;type:bigint unsigned;not null" json:"questionId"`
	SelectedOptionID *uint  `json:"selectedOptionId,omitempty"`
	TextResponse     string `gorm:"type:text" json:"textResponse"`
	IsCorrect        *bool  `json:"isCorrect,omitempty"` // 仅在提交判分后写入
	IsFlagged        bool   `gorm:"default:false" json:"isFlagged"`
	TimeSpentSeconds int    `gorm:"default:0" json:"timeSpentSeconds"`
}

func (UserResponse) TableName() string {
	return "user_responses"
}
