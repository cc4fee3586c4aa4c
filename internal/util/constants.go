package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 进度与徽章相关的固定策略常量
const (
	// TopicStrengthThreshold topic 正确率达到该百分比计为强项，低于计为弱项
	TopicStrengthThreshold = 70.0
	// StreakBadgeDays 连续学习达到该天数触发 Study Streak 徽章
	StreakBadgeDays = 7
)

// 文件上传相关常量
const (
	MimeImage       = "image/"
	MimeOctetStream = "application/octet-stream"
)
