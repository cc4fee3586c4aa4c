package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

// TestRepository 测试内容存取（对核心流程只读）
type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) Create(test *model.Test) error {
	return r.DB.Create(test).Error
}

func (r *TestRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	if err := r.DB.Preload("ExamCategory").First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

// FindByIDWithContent 加载测试及其题目、选项与知识点，题目按固定顺序返回
func (r *TestRepository) FindByIDWithContent(id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.
		Preload("ExamCategory").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.display_order ASC, questions.id ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id ASC")
		}).
		Preload("Questions.Topics").
		First(&test, id).Error
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *TestRepository) List(page, limit int, publishedOnly bool) ([]model.Test, int64, error) {
	var tests []model.Test
	var total int64

	query := r.DB.Model(&model.Test{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("ExamCategory").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&tests).Error
	return tests, total, err
}

func (r *TestRepository) Update(test *model.Test) error {
	return r.DB.Save(test).Error
}

func (r *TestRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Test{}, id).Error
}

func (r *TestRepository) SetPublished(id uint, published bool) error {
	return r.DB.Model(&model.Test{}).Where("id = ?", id).Update("is_published", published).Error
}

func (r *TestRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Preload("Options").Preload("Topics").First(&q, id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *TestRepository) CountQuestions(testID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("test_id = ?", testID).Count(&count).Error
	return count, err
}
