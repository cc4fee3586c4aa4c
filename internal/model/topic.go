package model

// Topic 知识点标签，用于强弱项分析
// swagger:model Topic
type Topic struct {
	BaseModel
	ExamCategoryID uint   `gorm:"index;type:bigint unsigned" json:"examCategoryId"`
	Name           string `gorm:"size:100;not null" json:"name"`
	Description    string `gorm:"type:text" json:"description"`
}

func (Topic) TableName() string {
	return "topics"
}
