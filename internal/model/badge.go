package model

import "time"

// 徽章目录中的固定名称
const (
	BadgeFirstTest    = "First Test"
	BadgePerfectScore = "Perfect Score"
	BadgeSpeedDemon   = "Speed Demon"
	BadgeStudyStreak  = "Study Streak"
)

// swagger:model Badge
type Badge struct {
	BaseModel
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:255" json:"icon"`
	Criteria    string `gorm:"type:text" json:"criteria"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge 用户已获得的徽章，同一徽章每人至多一行
// swagger:model UserBadge
type UserBadge struct {
	BaseModel
	UserID   uint      `gorm:"uniqueIndex:idx_user_badge;type:bigint unsigned;not null" json:"userId"`
	BadgeID  uint      `gorm:"uniqueIndex:idx_user_badge;type:bigint unsigned;not null" json:"badgeId"`
	EarnedAt time.Time `json:"earnedAt"`

	Badge *Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
