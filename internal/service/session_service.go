package service

import (
	"time"

	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"exam_prep_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionService 驱动一次测试从开始、作答到提交判分的完整生命周期
type SessionService struct {
	TestRepo     *repository.TestRepository
	AttemptRepo  *repository.UserTestRepository
	ResponseRepo *repository.UserResponseRepository
	Progress     *ProgressService
	Content      *TestService
	DB           *gorm.DB
}

func NewSessionService(
	testRepo *repository.TestRepository,
	attemptRepo *repository.UserTestRepository,
	responseRepo *repository.UserResponseRepository,
	progress *ProgressService,
	content *TestService,
	db *gorm.DB,
) *SessionService {
	return &SessionService{
		TestRepo:     testRepo,
		AttemptRepo:  attemptRepo,
		ResponseRepo: responseRepo,
		Progress:     progress,
		Content:      content,
		DB:           db,
	}
}

// StartTest 为用户创建一次进行中的尝试，并按题目顺序预建作答占位行
func (s *SessionService) StartTest(userID, testID uint) (*model.UserTest, error) {
	test, err := s.Content.GetContent(testID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	if !test.IsPublished {
		return nil, util.ErrTestNotPublished
	}
	if len(test.Questions) == 0 {
		return nil, util.ErrTestHasNoQuestions
	}

	attempt := &model.UserTest{
		PublicID:  model.GenerateUUID(),
		UserID:    userID,
		TestID:    testID,
		Status:    model.AttemptStatusInProgress,
		StartTime: time.Now(),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		placeholders := make([]model.UserResponse, 0, len(test.Questions))
		for _, q := range test.Questions {
			placeholders = append(placeholders, model.UserResponse{
				UserTestID: attempt.ID,
				QuestionID: q.ID,
			})
		}
		return tx.Create(&placeholders).Error
	})
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

// SaveResponseRequest 单题作答/标记请求，缺省字段保持原值
type SaveResponseRequest struct {
	QuestionID       uint    `json:"questionId" binding:"required"`
	SelectedOptionID *uint   `json:"selectedOptionId"`
	ClearSelection   bool    `json:"clearSelection"`
	TextResponse     *string `json:"textResponse"`
	IsFlagged        *bool   `json:"isFlagged"`
	TimeSpentSeconds *int    `json:"timeSpentSeconds"`
}

// SaveResponse 以 (attempt, question) 为键保存作答，重复调用覆盖不重复
func (s *SessionService) SaveResponse(userID, attemptID uint, req SaveResponseRequest) (*model.UserResponse, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.Status != model.AttemptStatusInProgress {
		return nil, util.ErrAttemptNotInProgress
	}

	question, err := s.TestRepo.FindQuestionByID(req.QuestionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}
	if question.TestID != attempt.TestID {
		return nil, util.ErrQuestionNotInTest
	}

	resp := &model.UserResponse{
		UserTestID: attemptID,
		QuestionID: req.QuestionID,
	}
	if existing, err := s.ResponseRepo.FindByAttemptAndQuestion(attemptID, req.QuestionID); err == nil {
		resp = existing
	}

	if req.SelectedOptionID != nil {
		resp.SelectedOptionID = req.SelectedOptionID
	} else if req.ClearSelection {
		resp.SelectedOptionID = nil
	}
	if req.TextResponse != nil {
		resp.TextResponse = *req.TextResponse
	}
	if req.IsFlagged != nil {
		resp.IsFlagged = *req.IsFlagged
	}
	if req.TimeSpentSeconds != nil {
		resp.TimeSpentSeconds = *req.TimeSpentSeconds
	}

	if err := s.ResponseRepo.Upsert(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ToggleFlag 翻转某题的标记状态，独立于作答内容
func (s *SessionService) ToggleFlag(userID, attemptID, questionID uint) (*model.UserResponse, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.Status != model.AttemptStatusInProgress {
		return nil, util.ErrAttemptNotInProgress
	}

	resp := &model.UserResponse{
		UserTestID: attemptID,
		QuestionID: questionID,
	}
	if existing, err := s.ResponseRepo.FindByAttemptAndQuestion(attemptID, questionID); err == nil {
		resp = existing
	}
	resp.IsFlagged = !resp.IsFlagged

	if err := s.ResponseRepo.Upsert(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Submit 提交一次尝试并判分。userID 为 0 表示系统（超时自动提交）。
//
// 并发约束：手动提交与定时器自动提交可能同时到达，完成动作走
// 仅当状态为 in_progress 才生效的条件更新；竞争失败的一方直接返回
// 已完成的结果，不会重复判分。
func (s *SessionService) Submit(userID, attemptID uint, timeSpentSeconds int) (*model.UserTest, error) {
	attempt, err := s.AttemptRepo.FindByIDWithTest(attemptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if userID != 0 && attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	// 重复提交是无害操作：返回已有结果
	if attempt.Status == model.AttemptStatusCompleted {
		applyPassOutcome(attempt)
		return attempt, nil
	}
	if attempt.Status != model.AttemptStatusInProgress {
		return nil, util.ErrAttemptNotInProgress
	}

	test, err := s.Content.GetContent(attempt.TestID)
	if err != nil {
		return nil, err
	}
	responses, err := s.ResponseRepo.FindByAttempt(attemptID)
	if err != nil {
		return nil, err
	}

	result := ScoreAttempt(test.Questions, responses)

	// 回写每题 is_correct（幂等覆盖，重试安全）
	for _, sr := range result.Responses {
		if sr.ResponseID == 0 {
			continue
		}
		if err := s.ResponseRepo.SetCorrectness(sr.ResponseID, sr.IsCorrect); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	won, err := s.AttemptRepo.CompleteIfInProgress(attemptID, result.Score, result.Percentage, now, timeSpentSeconds)
	if err != nil {
		return nil, err
	}

	completed, err := s.AttemptRepo.FindByIDWithTest(attemptID)
	if err != nil {
		return nil, err
	}
	applyPassOutcome(completed)
	if !won {
		// 另一条提交路径已完成判分，observer 直接拿现成结果
		return completed, nil
	}

	// 进度、连续天数与徽章属于次要效果：失败记录日志，不影响提交结果
	for i := range result.Responses {
		sr := result.Responses[i]
		for j := range responses {
			if responses[j].ID == sr.ResponseID {
				isCorrect := sr.IsCorrect
				responses[j].IsCorrect = &isCorrect
			}
		}
	}
	if err := s.Progress.RecordResult(attempt.UserID, test, result.Score, result.Percentage, timeSpentSeconds, test.Questions, responses); err != nil {
		logger.Log.Error("failed to update progress after submission",
			zap.Uint("attemptId", attemptID),
			zap.Uint("userId", attempt.UserID),
			zap.Error(err))
	}

	return completed, nil
}

// GetResults 返回一次尝试的完整结果（测试内容 + 逐题作答）
func (s *SessionService) GetResults(userID, attemptID uint) (*model.UserTest, error) {
	attempt, err := s.AttemptRepo.FindByIDWithTest(attemptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	test, err := s.TestRepo.FindByIDWithContent(attempt.TestID)
	if err == nil {
		attempt.Test = test
	}
	responses, err := s.ResponseRepo.FindByAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	attempt.Responses = responses
	applyPassOutcome(attempt)
	return attempt, nil
}

// applyPassOutcome 对已完成的尝试折算及格结果。
// 及格线取所属测试的设置，未设置时按默认及格线（70%）判定。
func applyPassOutcome(attempt *model.UserTest) {
	if attempt == nil || attempt.Status != model.AttemptStatusCompleted {
		return
	}
	if attempt.Percentage == nil || attempt.Test == nil {
		return
	}
	passed := *attempt.Percentage >= float64(attempt.Test.EffectivePassingPercentage())
	attempt.Passed = &passed
}

// ListUserAttempts 用户最近的测试记录（仪表盘）
func (s *SessionService) ListUserAttempts(userID uint, limit int) ([]model.UserTest, error) {
	return s.AttemptRepo.FindByUser(userID, limit)
}

// ProcessExpiredAttempts 定时任务入口：对计时用尽的进行中尝试执行自动提交。
// 与手动提交共用同一条 Submit 路径，至多一次生效由条件更新保证。
func (s *SessionService) ProcessExpiredAttempts() error {
	expired, err := s.AttemptRepo.FindExpiredInProgress(time.Now())
	if err != nil {
		return err
	}
	for _, attempt := range expired {
		timeSpent := attempt.Test.DurationMinutes * 60
		if _, err := s.Submit(0, attempt.ID, timeSpent); err != nil {
			logger.Log.Error("auto-submit of expired attempt failed",
				zap.Uint("attemptId", attempt.ID),
				zap.Error(err))
		}
	}
	return nil
}
