package model

// ExamCategory 考试类别，进度统计以类别为粒度
// swagger:model ExamCategory
type ExamCategory struct {
	BaseModel
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:255" json:"icon"`
	Slug        string `gorm:"size:100;uniqueIndex" json:"slug"`
}

func (ExamCategory) TableName() string {
	return "exam_categories"
}
