package model

import "time"

const (
	AttemptStatusInProgress = "in_progress"
	AttemptStatusCompleted  = "completed"
	AttemptStatusAbandoned  = "abandoned"
)

// UserTest 一次用户测试（attempt）。EndTime/Score/Percentage 仅在 completed 时有值。
// swagger:model UserTest
type UserTest struct {
	BaseModel
	PublicID         string     `gorm:"size:36;uniqueIndex" json:"publicId"`
	UserID           uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	TestID           uint       `gorm:"index;type:bigint unsigned;not null" json:"testId"`
	Status           string     `gorm:"size:20;default:'in_progress';index" json:"status"`
	Score            *int       `json:"score,omitempty"`
	Percentage       *float64   `json:"percentage,omitempty"`
	StartTime        time.Time  `gorm:"not null" json:"startTime"`
	EndTime          *time.Time `json:"endTime,omitempty"`
	TimeSpentSeconds *int       `json:"timeSpentSeconds,omitempty"`
	// Passed 按所属测试的及格线折算，只在返回已完成的尝试时填充，不落库
	Passed *bool `gorm:"-" json:"passed,omitempty"`

	Test      *Test          `gorm:"foreignKey:TestID" json:"test,omitempty"`
	Responses []UserResponse `gorm:"foreignKey:UserTestID" json:"responses,omitempty"`
}

func (UserTest) TableName() string {
	return "user_tests"
}
