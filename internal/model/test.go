package model

const (
	TestDifficultyBeginner     = "beginner"
	TestDifficultyIntermediate = "intermediate"
	TestDifficultyAdvanced     = "advanced"
	TestDifficultyExpert       = "expert"
)

// DefaultPassingPercentage 未配置及格线时的默认策略
const DefaultPassingPercentage = 70

// swagger:model Test
type Test struct {
	BaseModel
	ExamCategoryID    uint   `gorm:"index;type:bigint unsigned" json:"examCategoryId"`
	Title             string `gorm:"size:255;not null" json:"title"`
	Description       string `gorm:"type:text" json:"description"`
	DurationMinutes   int    `gorm:"default:0" json:"durationMinutes"`
	DifficultyLevel   string `gorm:"size:20;default:'beginner'" json:"difficultyLevel"`
	PassingPercentage int    `gorm:"default:0" json:"passingPercentage"` // 0 表示使用默认及格线
	IsFeatured        bool   `gorm:"default:false" json:"isFeatured"`
	IsPublished       bool   `gorm:"default:false" json:"isPublished"`
	ImageURL          string `gorm:"size:255" json:"imageUrl"`

	ExamCategory *ExamCategory `gorm:"foreignKey:ExamCategoryID" json:"examCategory,omitempty"`
	Questions    []Question    `gorm:"foreignKey:TestID" json:"questions,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}

// EffectivePassingPercentage 返回实际生效的及格线
func (t *Test) EffectivePassingPercentage() int {
	if t.PassingPercentage <= 0 {
		return DefaultPassingPercentage
	}
	return t.PassingPercentage
}
