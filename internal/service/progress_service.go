package service

import (
	"encoding/json"
	"sort"
	"time"

	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"exam_prep_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService 将判分完成的尝试折算进用户的长期统计，
// 并在其后依次触发连续学习天数与徽章评定
type ProgressService struct {
	ProgressRepo *repository.UserProgressRepository
	AttemptRepo  *repository.UserTestRepository
	UserRepo     *repository.UserRepository
	Badges       *BadgeService
}

func NewProgressService(
	progressRepo *repository.UserProgressRepository,
	attemptRepo *repository.UserTestRepository,
	userRepo *repository.UserRepository,
	badges *BadgeService,
) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		AttemptRepo:  attemptRepo,
		UserRepo:     userRepo,
		Badges:       badges,
	}
}

// TopicPerformance 单个 topic 在一次尝试中的正确率
type TopicPerformance struct {
	Total      int     `json:"total"`
	Correct    int     `json:"correct"`
	Percentage float64 `json:"percentage"`
}

// ComputeTopicPerformance 按题目关联的 topic 归组统计作答正确率。
// 一道题挂多个 topic 时对每个 topic 都计入一次。
func ComputeTopicPerformance(questions []model.Question, responses []model.UserResponse) map[string]*TopicPerformance {
	topicsByQuestion := make(map[uint][]model.Topic, len(questions))
	for _, q := range questions {
		topicsByQuestion[q.ID] = q.Topics
	}

	perf := make(map[string]*TopicPerformance)
	for _, r := range responses {
		for _, topic := range topicsByQuestion[r.QuestionID] {
			p, ok := perf[topic.Name]
			if !ok {
				p = &TopicPerformance{}
				perf[topic.Name] = p
			}
			p.Total++
			if r.IsCorrect != nil && *r.IsCorrect {
				p.Correct++
			}
			p.Percentage = float64(p.Correct) / float64(p.Total) * 100
		}
	}
	return perf
}

// SplitStrengthsWeaknesses 按固定阈值（70%）把 topic 划分为强项与弱项，名称排序保证输出稳定
func SplitStrengthsWeaknesses(perf map[string]*TopicPerformance) (strengths, weaknesses []string) {
	for name, p := range perf {
		if p.Percentage >= util.TopicStrengthThreshold {
			strengths = append(strengths, name)
		} else {
			weaknesses = append(weaknesses, name)
		}
	}
	sort.Strings(strengths)
	sort.Strings(weaknesses)
	return strengths, weaknesses
}

// RecordResult 将一次判分结果并入 (用户, 类别) 进度行：
// 首次完成创建新行，其后按加权平均滚动更新；强弱项总是反映最近一次尝试。
func (s *ProgressService) RecordResult(
	userID uint,
	test *model.Test,
	score int,
	percentage float64,
	timeSpentSeconds int,
	questions []model.Question,
	responses []model.UserResponse,
) error {
	perf := ComputeTopicPerformance(questions, responses)
	strengths, weaknesses := SplitStrengthsWeaknesses(perf)
	strengthsJSON, _ := json.Marshal(strengths)
	weaknessesJSON, _ := json.Marshal(weaknesses)

	now := time.Now()
	existing, err := s.ProgressRepo.FindByUserAndCategory(userID, test.ExamCategoryID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}

	if existing == nil || existing.ID == 0 {
		progress := &model.UserProgress{
			UserID:                userID,
			ExamCategoryID:        test.ExamCategoryID,
			TestsCompleted:        1,
			AverageScore:          percentage,
			TotalTimeSpentSeconds: timeSpentSeconds,
			Strengths:             strengthsJSON,
			Weaknesses:            weaknessesJSON,
			LastActivityDate:      now,
		}
		if err := s.ProgressRepo.Create(progress); err != nil {
			return err
		}
	} else {
		newAverage := (existing.AverageScore*float64(existing.TestsCompleted) + percentage) /
			float64(existing.TestsCompleted+1)
		existing.TestsCompleted++
		existing.AverageScore = newAverage
		existing.TotalTimeSpentSeconds += timeSpentSeconds
		existing.Strengths = strengthsJSON
		existing.Weaknesses = weaknessesJSON
		existing.LastActivityDate = now
		if err := s.ProgressRepo.Update(existing); err != nil {
			return err
		}
	}

	// 先连续天数，后徽章评定
	if err := s.TouchStreak(userID); err != nil {
		logger.Log.Warn("streak update failed", zap.Uint("userId", userID), zap.Error(err))
	}
	s.evaluateBadges(userID, test, percentage, timeSpentSeconds)
	return nil
}

// TouchStreak 连续学习天数打卡，按自然日幂等：
// 当天已计不重复；最近一次是昨天则 +1；间隔两天以上或无记录则重置为 1。
func (s *ProgressService) TouchStreak(userID uint) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return err
	}

	today := dateOnly(time.Now())
	if user.LastStudyDate != nil && dateOnly(*user.LastStudyDate).Equal(today) {
		return nil
	}

	streak := 1
	// 按本地自然日的 24 小时差判定"昨天"。注意夏令时回拨当天相邻两个
	// 本地零点相差 25 小时，此时连续打卡会被重置而不是 +1
	if user.LastStudyDate != nil && today.Sub(dateOnly(*user.LastStudyDate)) <= 24*time.Hour {
		streak = user.StreakDays + 1
	}

	if err := s.UserRepo.UpdateStreak(userID, streak, today); err != nil {
		return err
	}

	if streak >= util.StreakBadgeDays {
		if err := s.Badges.Award(userID, model.BadgeStudyStreak); err != nil {
			logger.Log.Warn("streak badge award failed", zap.Uint("userId", userID), zap.Error(err))
		}
	}
	return nil
}

// GetUserProgress 用户在各考试类别下的进度行
func (s *ProgressService) GetUserProgress(userID uint) ([]model.UserProgress, error) {
	return s.ProgressRepo.FindByUser(userID)
}

// evaluateBadges 判分后的成就评定，所有规则各自幂等，失败只记日志
func (s *ProgressService) evaluateBadges(userID uint, test *model.Test, percentage float64, timeSpentSeconds int) {
	completed, err := s.AttemptRepo.CountCompletedByUser(userID)
	if err == nil && completed == 1 {
		if err := s.Badges.Award(userID, model.BadgeFirstTest); err != nil {
			logger.Log.Warn("badge award failed", zap.String("badge", model.BadgeFirstTest), zap.Error(err))
		}
	}

	if percentage == 100 {
		if err := s.Badges.Award(userID, model.BadgePerfectScore); err != nil {
			logger.Log.Warn("badge award failed", zap.String("badge", model.BadgePerfectScore), zap.Error(err))
		}
	}

	// 用时不足测试时长一半
	if test.DurationMinutes > 0 && timeSpentSeconds < test.DurationMinutes*60/2 {
		if err := s.Badges.Award(userID, model.BadgeSpeedDemon); err != nil {
			logger.Log.Warn("badge award failed", zap.String("badge", model.BadgeSpeedDemon), zap.Error(err))
		}
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
