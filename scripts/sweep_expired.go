// 手动触发超时尝试自动提交脚本
//
// 该功能已集成到主应用的后台定时任务中（按配置的扫描周期自动执行）。
// 此脚本仅用于手动触发，例如服务长时间停机后积压了大量超时的进行中尝试。
//
// 用法: go run scripts/sweep_expired.go

package main

import (
	"log"

	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/service"
	"exam_prep_backend/pkg/database"
	"exam_prep_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	testRepo := repository.NewTestRepository(db)
	attemptRepo := repository.NewUserTestRepository(db)
	responseRepo := repository.NewUserResponseRepository(db)
	progressRepo := repository.NewUserProgressRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)

	badges := service.NewBadgeService(badgeRepo)
	progress := service.NewProgressService(progressRepo, attemptRepo, userRepo, badges)
	// 离线扫描不经过内容缓存，Redis 传 nil 即回源数据库
	content := service.NewTestService(testRepo, repository.NewExamCategoryRepository(db), repository.NewTopicRepository(db), nil, nil, db)
	session := service.NewSessionService(testRepo, attemptRepo, responseRepo, progress, content, db)

	log.Println("手动触发超时尝试自动提交...")
	if err := session.ProcessExpiredAttempts(); err != nil {
		log.Fatalf("处理失败: %v", err)
	}
	log.Println("完成！")
}
