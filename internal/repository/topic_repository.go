package repository

import (
	"exam_prep_backend/internal/model"

	"gorm.io/gorm"
)

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) Create(topic *model.Topic) error {
	return r.DB.Create(topic).Error
}

func (r *TopicRepository) FindByID(id uint) (*model.Topic, error) {
	var topic model.Topic
	if err := r.DB.First(&topic, id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *TopicRepository) FindByCategory(categoryID uint) ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.Where("exam_category_id = ?", categoryID).Order("name ASC").Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) FindByIDs(ids []uint) ([]model.Topic, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var topics []model.Topic
	err := r.DB.Where("id IN ?", ids).Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) Update(topic *model.Topic) error {
	return r.DB.Save(topic).Error
}

func (r *TopicRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Topic{}, id).Error
}
