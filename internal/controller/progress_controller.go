package controller

import (
	"strconv"

	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProgressController 学习进度与仪表盘
type ProgressController struct {
	ProgressService *service.ProgressService
	SessionService  *service.SessionService
	BadgeService    *service.BadgeService
	AuthService     *service.AuthService
}

func NewProgressController(
	progressService *service.ProgressService,
	sessionService *service.SessionService,
	badgeService *service.BadgeService,
	authService *service.AuthService,
) *ProgressController {
	return &ProgressController{
		ProgressService: progressService,
		SessionService:  sessionService,
		BadgeService:    badgeService,
		AuthService:     authService,
	}
}

// GetProgress godoc
// @Summary 学习进度
// @Description 当前用户在各考试类别下的进度：完成数、平均分、强弱项
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserProgress}
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.GetUserProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetDashboard godoc
// @Summary 学习仪表盘
// @Description 汇总视图：各类别进度、最近测试记录、连续学习天数与已获徽章
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Param recentLimit query int false "最近记录数量" default(5)
// @Success 200 {object} util.Response{data=object}
// @Router /api/dashboard [get]
func (c *ProgressController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	recentLimit, _ := strconv.Atoi(ctx.DefaultQuery("recentLimit", "5"))
	if recentLimit < 1 || recentLimit > 50 {
		recentLimit = 5
	}

	progress, err := c.ProgressService.GetUserProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	recent, err := c.SessionService.ListUserAttempts(claims.UserID, recentLimit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	badges, err := c.BadgeService.ListUserBadges(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	user := c.AuthService.GetCurrentUser(ctx)
	streakDays := 0
	if user != nil {
		streakDays = user.StreakDays
	}

	util.Success(ctx, gin.H{
		"progress":       progress,
		"recentAttempts": recent,
		"badges":         badges,
		"streakDays":     streakDays,
	})
}
