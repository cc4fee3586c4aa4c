package controller

import (
	"errors"
	"strconv"

	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionController 测试作答会话：开始、保存作答、标记、提交与结果查询
type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// StartTest godoc
// @Summary 开始测试
// @Description 为当前用户创建一次进行中的测试尝试
// @Tags 作答会话
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测试ID"
// @Success 201 {object} util.Response{data=model.UserTest}
// @Failure 404 {object} util.Response "测试不存在或未发布"
// @Failure 400 {object} util.Response "测试没有题目"
// @Router /api/tests/{id}/start [post]
func (c *SessionController) StartTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	testID := util.MustParseUint(ctx.Param("id"))

	attempt, err := c.SessionService.StartTest(claims.UserID, testID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTestNotFound), errors.Is(err, util.ErrTestNotPublished):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrTestHasNoQuestions):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, attempt)
}

// SaveResponse godoc
// @Summary 保存单题作答
// @Description 以 (尝试, 题目) 为键保存作答，重复调用覆盖原值
// @Tags 作答会话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "尝试ID"
// @Param body body service.SaveResponseRequest true "作答内容"
// @Success 200 {object} util.Response{data=model.UserResponse}
// @Failure 404 {object} util.Response "尝试不存在"
// @Failure 400 {object} util.Response "尝试已结束或题目不属于该测试"
// @Failure 403 {object} util.Response "无权访问"
// @Router /api/attempts/{id}/responses [put]
func (c *SessionController) SaveResponse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID := util.MustParseUint(ctx.Param("id"))

	var req service.SaveResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.SessionService.SaveResponse(claims.UserID, attemptID, req)
	if err != nil {
		c.writeSessionError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// ToggleFlag godoc
// @Summary 切换题目标记
// @Description 翻转某题的标记状态，不影响作答内容
// @Tags 作答会话
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "尝试ID"
// @Param questionId path int true "题目ID"
// @Success 200 {object} util.Response{data=model.UserResponse}
// @Router /api/attempts/{id}/questions/{questionId}/flag [post]
func (c *SessionController) ToggleFlag(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID := util.MustParseUint(ctx.Param("id"))
	questionID := util.MustParseUint(ctx.Param("questionId"))

	resp, err := c.SessionService.ToggleFlag(claims.UserID, attemptID, questionID)
	if err != nil {
		c.writeSessionError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// SubmitRequest 提交请求体
type SubmitRequest struct {
	TimeSpentSeconds int `json:"timeSpentSeconds"`
}

// Submit godoc
// @Summary 提交测试
// @Description 提交尝试并判分。重复提交返回已有结果，不重复判分。
// @Tags 作答会话
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "尝试ID"
// @Param body body SubmitRequest false "作答耗时"
// @Success 200 {object} util.Response{data=model.UserTest}
// @Failure 404 {object} util.Response "尝试不存在"
// @Failure 403 {object} util.Response "无权访问"
// @Router /api/attempts/{id}/submit [post]
func (c *SessionController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID := util.MustParseUint(ctx.Param("id"))

	var req SubmitRequest
	_ = ctx.ShouldBindJSON(&req)

	attempt, err := c.SessionService.Submit(claims.UserID, attemptID, req.TimeSpentSeconds)
	if err != nil {
		c.writeSessionError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// GetResults godoc
// @Summary 查看测试结果
// @Description 返回尝试的判分结果、逐题作答与正确答案
// @Tags 作答会话
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "尝试ID"
// @Success 200 {object} util.Response{data=model.UserTest}
// @Router /api/attempts/{id}/results [get]
func (c *SessionController) GetResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	attemptID := util.MustParseUint(ctx.Param("id"))

	attempt, err := c.SessionService.GetResults(claims.UserID, attemptID)
	if err != nil {
		c.writeSessionError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// ListAttempts godoc
// @Summary 我的测试记录
// @Description 当前用户最近的测试尝试列表（仪表盘）
// @Tags 作答会话
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "数量上限" default(10)
// @Success 200 {object} util.Response{data=[]model.UserTest}
// @Router /api/attempts [get]
func (c *SessionController) ListAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	attempts, err := c.SessionService.ListUserAttempts(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

func (c *SessionController) writeSessionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrAttemptNotInProgress),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrQuestionNotInTest):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
