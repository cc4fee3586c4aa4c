package database

import (
	"fmt"
	"log"

	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 执行表结构迁移并植入徽章目录
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.ExamCategory{},
		&model.Topic{},
		&model.Test{},
		&model.Question{},
		&model.Option{},
		&model.UserTest{},
		&model.UserResponse{},
		&model.UserProgress{},
		&model.Badge{},
		&model.UserBadge{},
	)
	if err != nil {
		return err
	}

	return seedBadges(db)
}

// seedBadges 植入默认徽章目录。授予逻辑按名称查目录，
// 目录缺失时静默跳过，因此这里保证四个固定徽章存在。
func seedBadges(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Badge{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []model.Badge{
		{
			Name:        model.BadgeFirstTest,
			Description: "完成第一次测试",
			Icon:        "badge-first-test",
			Criteria:    "完成任意一次测试提交",
		},
		{
			Name:        model.BadgePerfectScore,
			Description: "单次测试满分",
			Icon:        "badge-perfect-score",
			Criteria:    "单次测试得分率达到 100%",
		},
		{
			Name:        model.BadgeSpeedDemon,
			Description: "闪电答题",
			Icon:        "badge-speed-demon",
			Criteria:    "用时不足测试时长一半完成测试",
		},
		{
			Name:        model.BadgeStudyStreak,
			Description: "坚持学习",
			Icon:        "badge-study-streak",
			Criteria:    "连续学习满 7 天",
		},
	}
	for i := range defaults {
		if err := db.Create(&defaults[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
