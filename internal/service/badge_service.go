package service

import (
	"time"

	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"

	"gorm.io/gorm"
)

// BadgeService 成就徽章的查询与授予
type BadgeService struct {
	BadgeRepo *repository.BadgeRepository
}

func NewBadgeService(badgeRepo *repository.BadgeRepository) *BadgeService {
	return &BadgeService{BadgeRepo: badgeRepo}
}

// Award 按名称授予徽章，幂等：目录缺失或已持有时静默跳过，
// 不让成就流程打断提交主链路
func (s *BadgeService) Award(userID uint, badgeName string) error {
	badge, err := s.BadgeRepo.FindByName(badgeName)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	if _, err := s.BadgeRepo.FindUserBadge(userID, badge.ID); err == nil {
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	return s.BadgeRepo.CreateUserBadge(&model.UserBadge{
		UserID:   userID,
		BadgeID:  badge.ID,
		EarnedAt: time.Now(),
	})
}

func (s *BadgeService) ListCatalog() ([]model.Badge, error) {
	return s.BadgeRepo.FindAll()
}

func (s *BadgeService) ListUserBadges(userID uint) ([]model.UserBadge, error) {
	return s.BadgeRepo.FindUserBadges(userID)
}
