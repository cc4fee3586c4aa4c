package repository

import (
	"time"

	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

// UserTestRepository 测试尝试（attempt）存取
type UserTestRepository struct {
	DB *gorm.DB
}

func NewUserTestRepository(db *gorm.DB) *UserTestRepository {
	return &UserTestRepository{DB: db}
}

func (r *UserTestRepository) Create(attempt *model.UserTest) error {
	return r.DB.Create(attempt).Error
}

func (r *UserTestRepository) FindByID(id uint) (*model.UserTest, error) {
	var attempt model.UserTest
	if err := r.DB.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *UserTestRepository) FindByIDWithTest(id uint) (*model.UserTest, error) {
	var attempt model.UserTest
	if err := r.DB.Preload("Test").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// CompleteIfInProgress 条件更新：仅当状态仍为 in_progress 时写入判分结果。
// 返回 false 表示尝试已被其他提交路径完成（定时器与手动提交竞争时的输方）。
func (r *UserTestRepository) CompleteIfInProgress(id uint, score int, percentage float64, endTime time.Time, timeSpentSeconds int) (bool, error) {
	result := r.DB.Model(&model.UserTest{}).
		Where("id = ? AND status = ?", id, model.AttemptStatusInProgress).
		Updates(map[string]interface{}{
			"status":             model.AttemptStatusCompleted,
			"score":              score,
			"percentage":         percentage,
			"end_time":           endTime,
			"time_spent_seconds": timeSpentSeconds,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *UserTestRepository) CountCompletedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserTest{}).
		Where("user_id = ? AND status = ?", userID, model.AttemptStatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *UserTestRepository) FindByUser(userID uint, limit int) ([]model.UserTest, error) {
	var attempts []model.UserTest
	query := r.DB.Preload("Test").Preload("Test.ExamCategory").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&attempts).Error
	return attempts, err
}

// FindExpiredInProgress 查找计时已超出测试时长的进行中尝试，供自动提交定时任务使用
func (r *UserTestRepository) FindExpiredInProgress(now time.Time) ([]model.UserTest, error) {
	var attempts []model.UserTest
	err := r.DB.Preload("Test").
		Joins("JOIN tests ON tests.id = user_tests.test_id").
		Where("user_tests.status = ?", model.AttemptStatusInProgress).
		Where("tests.duration_minutes > 0").
		Where("user_tests.start_time <= ?", now).
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}

	expired := attempts[:0]
	for _, a := range attempts {
		if a.Test == nil {
			continue
		}
		deadline := a.StartTime.Add(time.Duration(a.Test.DurationMinutes) * time.Minute)
		if !now.Before(deadline) {
			expired = append(expired, a)
		}
	}
	return expired, nil
}
