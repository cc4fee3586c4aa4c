package controller

import (
	"errors"
	"strconv"

	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TestController 测试内容的管理端维护与学生端浏览
type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// ListTests godoc
// @Summary 测试列表
// @Description 分页获取测试列表，学生端只返回已发布的测试
// @Tags 测试
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	claims := util.GetUserFromContext(ctx)
	publishedOnly := claims == nil || claims.Role != model.Admin

	tests, total, err := c.TestService.ListTests(page, limit, publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  tests,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetTest godoc
// @Summary 测试详情（学生端）
// @Description 获取测试内容：按固定顺序的题目与选项，不包含答案
// @Tags 测试
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测试ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "测试不存在或未发布"
// @Router /api/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))

	test, questions, err := c.TestService.GetStudentContent(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, util.ErrTestNotPublished) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"id":                test.ID,
		"title":             test.Title,
		"description":       test.Description,
		"durationMinutes":   test.DurationMinutes,
		"difficultyLevel":   test.DifficultyLevel,
		"passingPercentage": test.EffectivePassingPercentage(),
		"examCategory":      test.ExamCategory,
		"questions":         questions,
	})
}

// CreateTest godoc
// @Summary 创建测试
// @Tags 测试管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TestRequest true "测试信息"
// @Success 201 {object} util.Response{data=model.Test}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	var req service.TestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.CreateTest(req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.BadRequest(ctx, "exam category not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, test)
}

// UpdateTest godoc
// @Summary 更新测试
// @Tags 测试管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测试ID"
// @Param body body service.TestRequest true "测试信息"
// @Success 200 {object} util.Response{data=model.Test}
// @Router /api/admin/tests/{id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))

	var req service.TestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.UpdateTest(testID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// DeleteTest godoc
// @Summary 删除测试
// @Tags 测试管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测试ID"
// @Success 200 {object} util.Response
// @Router /api/admin/tests/{id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))
	if err := c.TestService.DeleteTest(testID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// PublishTest godoc
// @Summary 发布测试
// @Tags 测试管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测试ID"
// @Success 200 {object} util.Response
// @Router /api/admin/tests/{id}/publish [post]
func (c *TestController) PublishTest(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))
	if err := c.TestService.SetPublished(testID, true); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UnpublishTest godoc
// @Summary 下线测试
// @Tags 测试管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测试ID"
// @Success 200 {object} util.Response
// @Router /api/admin/tests/{id}/unpublish [post]
func (c *TestController) UnpublishTest(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))
	if err := c.TestService.SetPublished(testID, false); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetTestContent godoc
// @Summary 测试详情（管理端）
// @Description 获取完整测试内容，包含正确答案与解析
// @Tags 测试管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测试ID"
// @Success 200 {object} util.Response{data=model.Test}
// @Router /api/admin/tests/{id} [get]
func (c *TestController) GetTestContent(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))

	test, err := c.TestService.GetContent(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// CreateQuestion godoc
// @Summary 新增题目
// @Description 创建题目及其选项，并关联知识点
// @Tags 测试管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测试ID"
// @Param body body service.QuestionRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /api/admin/tests/{id}/questions [post]
func (c *TestController) CreateQuestion(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.TestService.CreateQuestion(testID, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Description 更新题目内容，选项按集合对账，知识点关联整组替换
// @Tags 测试管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测试ID"
// @Param questionId path int true "题目ID"
// @Param body body service.QuestionRequest true "题目信息"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/admin/tests/{id}/questions/{questionId} [put]
func (c *TestController) UpdateQuestion(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))
	questionID := util.MustParseUint(ctx.Param("questionId"))

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.TestService.UpdateQuestion(testID, questionID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrQuestionNotInTest):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 测试管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测试ID"
// @Param questionId path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/tests/{id}/questions/{questionId} [delete]
func (c *TestController) DeleteQuestion(ctx *gin.Context) {
	testID := util.MustParseUint(ctx.Param("id"))
	questionID := util.MustParseUint(ctx.Param("questionId"))

	if err := c.TestService.DeleteQuestion(testID, questionID); err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrQuestionNotInTest):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// UploadQuestionImage godoc
// @Summary 上传题目配图
// @Tags 测试管理
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "图片文件"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/admin/questions/image [post]
func (c *TestController) UploadQuestionImage(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.TestService.UploadQuestionImage(ctx.Request.Context(), fileHeader)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
