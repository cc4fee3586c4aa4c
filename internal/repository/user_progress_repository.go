package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

// UserProgressRepository 按 (用户, 考试类别) 维护进度行
type UserProgressRepository struct {
	DB *gorm.DB
}

func NewUserProgressRepository(db *gorm.DB) *UserProgressRepository {
	return &UserProgressRepository{DB: db}
}

func (r *UserProgressRepository) FindByUserAndCategory(userID, categoryID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.DB.Where("user_id = ? AND exam_category_id = ?", userID, categoryID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *UserProgressRepository) FindByUser(userID uint) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := r.DB.Where("user_id = ?", userID).Order("exam_category_id ASC").Find(&rows).Error
	return rows, err
}

func (r *UserProgressRepository) Create(progress *model.UserProgress) error {
	return r.DB.Create(progress).Error
}

func (r *UserProgressRepository) Update(progress *model.UserProgress) error {
	return r.DB.Save(progress).Error
}
