package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name          string     `gorm:"size:100;not null" json:"name"`
	Email         string     `gorm:"size:100;unique;not null" json:"email"`
	Password      string     `gorm:"size:100;not null" json:"-"`
	Role          UserRole   `gorm:"size:20;default:'student'" json:"role"`
	Avatar        string     `gorm:"size:255" json:"avatar"`
	Bio           string     `gorm:"type:text" json:"bio"`
	StudyGoal     string     `gorm:"size:255" json:"studyGoal"`
	TargetExamID  *uint      `gorm:"index" json:"targetExamId,omitempty"`
	StreakDays    int        `gorm:"default:0" json:"streakDays"` // 连续学习天数
	LastStudyDate *time.Time `json:"lastStudyDate,omitempty"`     // 最近一次学习日期（仅日期有效）
	Disabled      bool       `gorm:"default:false" json:"disabled"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}
