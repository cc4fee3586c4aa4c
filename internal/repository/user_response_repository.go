package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

// UserResponseRepository 按 (attempt, question) 幂等写入的作答存取
type UserResponseRepository struct {
	DB *gorm.DB
}

func NewUserResponseRepository(db *gorm.DB) *UserResponseRepository {
	return &UserResponseRepository{DB: db}
}

func (r *UserResponseRepository) CreateBatch(responses []model.UserResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return r.DB.Create(&responses).Error
}

func (r *UserResponseRepository) FindByAttemptAndQuestion(userTestID, questionID uint) (*model.UserResponse, error) {
	var resp model.UserResponse
	err := r.DB.Where("user_test_id = ? AND question_id = ?", userTestID, questionID).First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *UserResponseRepository) FindByAttempt(userTestID uint) ([]model.UserResponse, error) {
	var responses []model.UserResponse
	err := r.DB.Where("user_test_id = ?", userTestID).Order("question_id ASC").Find(&responses).Error
	return responses, err
}

// Upsert 以 (user_test_id, question_id) 为自然键保存作答，最后一次写入生效
func (r *UserResponseRepository) Upsert(resp *model.UserResponse) error {
	var existing model.UserResponse
	err := r.DB.Where("user_test_id = ? AND question_id = ?", resp.UserTestID, resp.QuestionID).
		First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if existing.ID == 0 {
		return r.DB.Create(resp).Error
	}

	existing.SelectedOptionID = resp.SelectedOptionID
	existing.TextResponse = resp.TextResponse
	existing.IsFlagged = resp.IsFlagged
	existing.TimeSpentSeconds = resp.TimeSpentSeconds
	if err := r.DB.Save(&existing).Error; err != nil {
		return err
	}
	*resp = existing
	return nil
}

// SetCorrectness 提交判分时回写 is_correct，幂等覆盖
func (r *UserResponseRepository) SetCorrectness(responseID uint, isCorrect bool) error {
	return r.DB.Model(&model.UserResponse{}).Where("id = ?", responseID).
		Update("is_correct", isCorrect).Error
}

func (r *UserResponseRepository) CountByAttempt(userTestID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserResponse{}).Where("user_test_id = ?", userTestID).Count(&count).Error
	return count, err
}
