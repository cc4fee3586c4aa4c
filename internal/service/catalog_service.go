package service

import (
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
)

// CatalogService 考试类别与知识点（topic）目录维护
type CatalogService struct {
	CategoryRepo *repository.ExamCategoryRepository
	TopicRepo    *repository.TopicRepository
}

func NewCatalogService(categoryRepo *repository.ExamCategoryRepository, topicRepo *repository.TopicRepository) *CatalogService {
	return &CatalogService{
		CategoryRepo: categoryRepo,
		TopicRepo:    topicRepo,
	}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Slug        string `json:"slug"`
}

func (s *CatalogService) CreateCategory(req CategoryRequest) (*model.ExamCategory, error) {
	category := &model.ExamCategory{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Slug:        req.Slug,
	}
	if err := s.CategoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(id uint, req CategoryRequest) (*model.ExamCategory, error) {
	category, err := s.CategoryRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	category.Description = req.Description
	category.Icon = req.Icon
	if req.Slug != "" {
		category.Slug = req.Slug
	}
	if err := s.CategoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(id uint) error {
	return s.CategoryRepo.Delete(id)
}

func (s *CatalogService) ListCategories() ([]model.ExamCategory, error) {
	return s.CategoryRepo.FindAll()
}

func (s *CatalogService) GetCategory(id uint) (*model.ExamCategory, error) {
	return s.CategoryRepo.FindByID(id)
}

type TopicRequest struct {
	ExamCategoryID uint   `json:"examCategoryId" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
}

func (s *CatalogService) CreateTopic(req TopicRequest) (*model.Topic, error) {
	if _, err := s.CategoryRepo.FindByID(req.ExamCategoryID); err != nil {
		return nil, err
	}
	topic := &model.Topic{
		ExamCategoryID: req.ExamCategoryID,
		Name:           req.Name,
		Description:    req.Description,
	}
	if err := s.TopicRepo.Create(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *CatalogService) UpdateTopic(id uint, req TopicRequest) (*model.Topic, error) {
	topic, err := s.TopicRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	topic.ExamCategoryID = req.ExamCategoryID
	topic.Name = req.Name
	topic.Description = req.Description
	if err := s.TopicRepo.Update(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *CatalogService) DeleteTopic(id uint) error {
	return s.TopicRepo.Delete(id)
}

func (s *CatalogService) ListTopics(categoryID uint) ([]model.Topic, error) {
	return s.TopicRepo.FindByCategory(categoryID)
}
