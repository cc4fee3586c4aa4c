package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

type ExamCategoryRepository struct {
	DB *gorm.DB
}

func NewExamCategoryRepository(db *gorm.DB) *ExamCategoryRepository {
	return &ExamCategoryRepository{DB: db}
}

func (r *ExamCategoryRepository) Create(category *model.ExamCategory) error {
	return r.DB.Create(category).Error
}

func (r *ExamCategoryRepository) FindByID(id uint) (*model.ExamCategory, error) {
	var category model.ExamCategory
	if err := r.DB.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *ExamCategoryRepository) FindAll() ([]model.ExamCategory, error) {
	var categories []model.ExamCategory
	err := r.DB.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *ExamCategoryRepository) Update(category *model.ExamCategory) error {
	return r.DB.Save(category).Error
}

func (r *ExamCategoryRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ExamCategory{}, id).Error
}
