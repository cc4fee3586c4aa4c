package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"exam_prep_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testContentKeyPrefix = "test:content:"
	testContentTTL       = 10 * time.Minute
)

// TestService 测试内容的创作（管理端）与读取。
// 已发布测试的完整内容走 Redis 快照缓存，保证一次尝试判分期间读到稳定内容，
// 创作端的任何写操作都会使对应快照失效。
type TestService struct {
	TestRepo     *repository.TestRepository
	CategoryRepo *repository.ExamCategoryRepository
	TopicRepo    *repository.TopicRepository
	Storage      *StorageService
	Redis        *redis.Client
	DB           *gorm.DB
}

func NewTestService(
	testRepo *repository.TestRepository,
	categoryRepo *repository.ExamCategoryRepository,
	topicRepo *repository.TopicRepository,
	storage *StorageService,
	rdb *redis.Client,
	db *gorm.DB,
) *TestService {
	return &TestService{
		TestRepo:     testRepo,
		CategoryRepo: categoryRepo,
		TopicRepo:    topicRepo,
		Storage:      storage,
		Redis:        rdb,
		DB:           db,
	}
}

// GetContent 取完整测试内容（题目、选项、topic），优先命中缓存
func (s *TestService) GetContent(testID uint) (*model.Test, error) {
	key := fmt.Sprintf("%s%d", testContentKeyPrefix, testID)

	if s.Redis != nil {
		if val, err := s.Redis.Get(context.Background(), key).Result(); err == nil {
			var cached model.Test
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	test, err := s.TestRepo.FindByIDWithContent(testID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil && test.IsPublished {
		if payload, err := json.Marshal(test); err == nil {
			if err := s.Redis.Set(context.Background(), key, payload, testContentTTL).Err(); err != nil {
				logger.Log.Warn("test content cache write failed", zap.Uint("testId", testID), zap.Error(err))
			}
		}
	}
	return test, nil
}

func (s *TestService) invalidateContent(testID uint) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf("%s%d", testContentKeyPrefix, testID)
	if err := s.Redis.Del(context.Background(), key).Err(); err != nil {
		logger.Log.Warn("test content cache invalidation failed", zap.Uint("testId", testID), zap.Error(err))
	}
}

type TestRequest struct {
	ExamCategoryID    uint   `json:"examCategoryId" binding:"required"`
	Title             string `json:"title" binding:"required"`
	Description       string `json:"description"`
	DurationMinutes   int    `json:"durationMinutes"`
	DifficultyLevel   string `json:"difficultyLevel"`
	PassingPercentage int    `json:"passingPercentage"`
	IsFeatured        bool   `json:"isFeatured"`
	ImageURL          string `json:"imageUrl"`
}

func (s *TestService) CreateTest(req TestRequest) (*model.Test, error) {
	if _, err := s.CategoryRepo.FindByID(req.ExamCategoryID); err != nil {
		return nil, err
	}

	test := &model.Test{
		ExamCategoryID:    req.ExamCategoryID,
		Title:             req.Title,
		Description:       req.Description,
		DurationMinutes:   req.DurationMinutes,
		DifficultyLevel:   req.DifficultyLevel,
		PassingPercentage: req.PassingPercentage,
		IsFeatured:        req.IsFeatured,
		ImageURL:          req.ImageURL,
	}
	if err := s.TestRepo.Create(test); err != nil {
		return nil, err
	}
	return test, nil
}

func (s *TestService) UpdateTest(testID uint, req TestRequest) (*model.Test, error) {
	test, err := s.TestRepo.FindByID(testID)
	if err != nil {
		return nil, err
	}

	test.ExamCategoryID = req.ExamCategoryID
	test.Title = req.Title
	test.Description = req.Description
	test.DurationMinutes = req.DurationMinutes
	test.DifficultyLevel = req.DifficultyLevel
	test.PassingPercentage = req.PassingPercentage
	test.IsFeatured = req.IsFeatured
	test.ImageURL = req.ImageURL

	if err := s.TestRepo.Update(test); err != nil {
		return nil, err
	}
	s.invalidateContent(testID)
	return test, nil
}

func (s *TestService) DeleteTest(testID uint) error {
	if err := s.TestRepo.Delete(testID); err != nil {
		return err
	}
	s.invalidateContent(testID)
	return nil
}

func (s *TestService) SetPublished(testID uint, published bool) error {
	if err := s.TestRepo.SetPublished(testID, published); err != nil {
		return err
	}
	s.invalidateContent(testID)
	return nil
}

func (s *TestService) ListTests(page, limit int, publishedOnly bool) ([]model.Test, int64, error) {
	return s.TestRepo.List(page, limit, publishedOnly)
}

func (s *TestService) GetTest(testID uint) (*model.Test, error) {
	return s.TestRepo.FindByID(testID)
}

// StudentQuestion 考试进行中的题目视图，不携带选项正确性
type StudentQuestion struct {
	ID           uint            `json:"id"`
	QuestionText string          `json:"questionText"`
	QuestionType string          `json:"questionType"`
	Points       int             `json:"points"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	Order        int             `json:"order"`
	Options      []StudentOption `json:"options"`
}

type StudentOption struct {
	ID         uint   `json:"id"`
	OptionText string `json:"optionText"`
}

// GetStudentContent 学生端测试内容：按固定顺序的题目，隐藏答案与解析
func (s *TestService) GetStudentContent(testID uint) (*model.Test, []StudentQuestion, error) {
	test, err := s.GetContent(testID)
	if err != nil {
		return nil, nil, err
	}
	if !test.IsPublished {
		return nil, nil, util.ErrTestNotPublished
	}

	questions := make([]StudentQuestion, 0, len(test.Questions))
	for _, q := range test.Questions {
		sq := StudentQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			QuestionType: q.QuestionType,
			Points:       q.EffectivePoints(),
			ImageURL:     q.ImageURL,
			Order:        q.Order,
		}
		for _, o := range q.Options {
			sq.Options = append(sq.Options, StudentOption{ID: o.ID, OptionText: o.OptionText})
		}
		questions = append(questions, sq)
	}
	return test, questions, nil
}

type OptionRequest struct {
	ID         uint   `json:"id"` // 0 表示新增
	OptionText string `json:"optionText" binding:"required"`
	IsCorrect  bool   `json:"isCorrect"`
}

type QuestionRequest struct {
	QuestionText    string          `json:"questionText" binding:"required"`
	QuestionType    string          `json:"questionType"`
	DifficultyLevel string          `json:"difficultyLevel"`
	Points          int             `json:"points"`
	Explanation     string          `json:"explanation"`
	ImageURL        string          `json:"imageUrl"`
	Order           int             `json:"order"`
	Options         []OptionRequest `json:"options"`
	TopicIDs        []uint          `json:"topicIds"`
}

// CreateQuestion 新建题目及其选项，并建立 topic 关联
func (s *TestService) CreateQuestion(testID uint, req QuestionRequest) (*model.Question, error) {
	if _, err := s.TestRepo.FindByID(testID); err != nil {
		return nil, err
	}

	var created *model.Question
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		question := &model.Question{
			TestID:          testID,
			QuestionText:    req.QuestionText,
			QuestionType:    req.QuestionType,
			DifficultyLevel: req.DifficultyLevel,
			Points:          req.Points,
			Explanation:     req.Explanation,
			ImageURL:        req.ImageURL,
			Order:           req.Order,
		}
		if err := tx.Create(question).Error; err != nil {
			return err
		}

		for _, o := range req.Options {
			option := &model.Option{
				QuestionID: question.ID,
				OptionText: o.OptionText,
				IsCorrect:  o.IsCorrect,
			}
			if err := tx.Create(option).Error; err != nil {
				return err
			}
		}

		if err := s.replaceTopicLinks(tx, question, req.TopicIDs); err != nil {
			return err
		}

		created = question
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateContent(testID)
	return s.TestRepo.FindQuestionByID(created.ID)
}

// UpdateQuestion 更新题目。选项做集合对账（更新保留的、新建缺失的、删除多余的），
// topic 关联整组替换为请求给出的集合。
func (s *TestService) UpdateQuestion(testID, questionID uint, req QuestionRequest) (*model.Question, error) {
	question, err := s.TestRepo.FindQuestionByID(questionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}
	if question.TestID != testID {
		return nil, util.ErrQuestionNotInTest
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		question.QuestionText = req.QuestionText
		question.QuestionType = req.QuestionType
		question.DifficultyLevel = req.DifficultyLevel
		question.Points = req.Points
		question.Explanation = req.Explanation
		question.ImageURL = req.ImageURL
		question.Order = req.Order
		if err := tx.Omit("Options", "Topics").Save(question).Error; err != nil {
			return err
		}

		// 选项对账：请求中带 id 的更新，不带 id 的新建，库里多出的删除
		var existingOptions []model.Option
		if err := tx.Where("question_id = ?", questionID).Find(&existingOptions).Error; err != nil {
			return err
		}
		stale := make(map[uint]bool, len(existingOptions))
		for _, o := range existingOptions {
			stale[o.ID] = true
		}

		for _, o := range req.Options {
			if o.ID != 0 && stale[o.ID] {
				if err := tx.Model(&model.Option{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
					"option_text": o.OptionText,
					"is_correct":  o.IsCorrect,
				}).Error; err != nil {
					return err
				}
				delete(stale, o.ID)
			} else {
				option := &model.Option{
					QuestionID: questionID,
					OptionText: o.OptionText,
					IsCorrect:  o.IsCorrect,
				}
				if err := tx.Create(option).Error; err != nil {
					return err
				}
			}
		}
		for id := range stale {
			if err := tx.Delete(&model.Option{}, id).Error; err != nil {
				return err
			}
		}

		return s.replaceTopicLinks(tx, question, req.TopicIDs)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateContent(testID)
	return s.TestRepo.FindQuestionByID(questionID)
}

func (s *TestService) DeleteQuestion(testID, questionID uint) error {
	question, err := s.TestRepo.FindQuestionByID(questionID)
	if err != nil {
		return util.ErrQuestionNotFound
	}
	if question.TestID != testID {
		return util.ErrQuestionNotInTest
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Model(question).Association("Topics").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, questionID).Error
	})
	if err != nil {
		return err
	}

	s.invalidateContent(testID)

	if question.ImageURL != "" && s.Storage != nil {
		// 上传时对象键固定为 questions/<uuid><ext>
		key := "questions/" + filepath.Base(question.ImageURL)
		if err := s.Storage.Delete(context.Background(), key); err != nil {
			logger.Log.Warn("question image cleanup failed", zap.Uint("questionId", questionID), zap.Error(err))
		}
	}
	return nil
}

// replaceTopicLinks 将题目的 topic 关联整组替换为给定集合
func (s *TestService) replaceTopicLinks(tx *gorm.DB, question *model.Question, topicIDs []uint) error {
	topics, err := s.TopicRepo.FindByIDs(topicIDs)
	if err != nil {
		return err
	}
	assoc := tx.Model(question).Association("Topics")
	if len(topics) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(topics)
}

// UploadQuestionImage 上传题目配图，文件名随机化避免冲突
func (s *TestService) UploadQuestionImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("questions/%s%s", model.GenerateUUID(), filepath.Ext(fileHeader.Filename))
	return s.Storage.Upload(ctx, filename, file, fileHeader.Size, mimeType)
}
