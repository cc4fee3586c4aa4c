package model

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeFillBlank      = "fill_blank"
	QuestionTypeEssay          = "essay"
)

const (
	QuestionDifficultyEasy   = "easy"
	QuestionDifficultyMedium = "medium"
	QuestionDifficultyHard   = "hard"
)

// swagger:model Question
type Question struct {
	BaseModel
	TestID          uint   `gorm:"index;type:bigint unsigned" json:"testId"`
	QuestionText    string `gorm:"type:text;not null" json:"questionText"`
	QuestionType    string `gorm:"size:50;default:'multiple_choice'" json:"questionType"`
	DifficultyLevel string `gorm:"size:20;default:'medium'" json:"difficultyLevel"`
	Points          int    `gorm:"default:1" json:"points"`
	Explanation     string `gorm:"type:text" json:"explanation"` // 答案解析
	ImageURL        string `gorm:"size:255" json:"imageUrl"`
	Order           int    `gorm:"column:display_order;default:0" json:"order"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	Topics  []Topic  `gorm:"many2many:question_topics" json:"topics,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// EffectivePoints 题目分值，未设置时默认 1 分
func (q *Question) EffectivePoints() int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}
