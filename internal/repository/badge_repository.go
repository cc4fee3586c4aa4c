package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) FindByName(name string) (*model.Badge, error) {
	var badge model.Badge
	if err := r.DB.Where("name = ?", name).First(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *BadgeRepository) FindAll() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Order("id ASC").Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) FindUserBadge(userID, badgeID uint) (*model.UserBadge, error) {
	var ub model.UserBadge
	err := r.DB.Where("user_id = ? AND badge_id = ?", userID, badgeID).First(&ub).Error
	if err != nil {
		return nil, err
	}
	return &ub, nil
}

func (r *BadgeRepository) FindUserBadges(userID uint) ([]model.UserBadge, error) {
	var rows []model.UserBadge
	err := r.DB.Preload("Badge").Where("user_id = ?", userID).Order("earned_at DESC").Find(&rows).Error
	return rows, err
}

func (r *BadgeRepository) CreateUserBadge(ub *model.UserBadge) error {
	return r.DB.Create(ub).Error
}
