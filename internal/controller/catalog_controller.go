package controller

import (
	"errors"

	"exam_prep_backend/internal/service"
	"exam_prep_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CatalogController 考试类别与知识点目录
type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

// ListCategories godoc
// @Summary 考试类别列表
// @Tags 目录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ExamCategory}
// @Router /api/categories [get]
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.CatalogService.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// GetCategory godoc
// @Summary 考试类别详情
// @Tags 目录
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "类别ID"
// @Success 200 {object} util.Response{data=model.ExamCategory}
// @Router /api/categories/{id} [get]
func (c *CatalogController) GetCategory(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	category, err := c.CatalogService.GetCategory(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// CreateCategory godoc
// @Summary 创建考试类别
// @Tags 目录管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CategoryRequest true "类别信息"
// @Success 201 {object} util.Response{data=model.ExamCategory}
// @Router /api/admin/categories [post]
func (c *CatalogController) CreateCategory(ctx *gin.Context) {
	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category, err := c.CatalogService.CreateCategory(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, category)
}

// UpdateCategory godoc
// @Summary 更新考试类别
// @Tags 目录管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "类别ID"
// @Param body body service.CategoryRequest true "类别信息"
// @Success 200 {object} util.Response{data=model.ExamCategory}
// @Router /api/admin/categories/{id} [put]
func (c *CatalogController) UpdateCategory(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	var req service.CategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	category, err := c.CatalogService.UpdateCategory(id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, category)
}

// DeleteCategory godoc
// @Summary 删除考试类别
// @Tags 目录管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "类别ID"
// @Success 200 {object} util.Response
// @Router /api/admin/categories/{id} [delete]
func (c *CatalogController) DeleteCategory(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.CatalogService.DeleteCategory(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListTopics godoc
// @Summary 知识点列表
// @Description 某考试类别下的全部知识点
// @Tags 目录
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "类别ID"
// @Success 200 {object} util.Response{data=[]model.Topic}
// @Router /api/categories/{id}/topics [get]
func (c *CatalogController) ListTopics(ctx *gin.Context) {
	categoryID := util.MustParseUint(ctx.Param("id"))
	topics, err := c.CatalogService.ListTopics(categoryID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}

// CreateTopic godoc
// @Summary 创建知识点
// @Tags 目录管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TopicRequest true "知识点信息"
// @Success 201 {object} util.Response{data=model.Topic}
// @Router /api/admin/topics [post]
func (c *CatalogController) CreateTopic(ctx *gin.Context) {
	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.CatalogService.CreateTopic(req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.BadRequest(ctx, "exam category not found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, topic)
}

// UpdateTopic godoc
// @Summary 更新知识点
// @Tags 目录管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "知识点ID"
// @Param body body service.TopicRequest true "知识点信息"
// @Success 200 {object} util.Response{data=model.Topic}
// @Router /api/admin/topics/{id} [put]
func (c *CatalogController) UpdateTopic(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	var req service.TopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.CatalogService.UpdateTopic(id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, topic)
}

// DeleteTopic godoc
// @Summary 删除知识点
// @Tags 目录管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "知识点ID"
// @Success 200 {object} util.Response
// @Router /api/admin/topics/{id} [delete]
func (c *CatalogController) DeleteTopic(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.CatalogService.DeleteTopic(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
