package app

import (
	"exam_prep_backend/docs"
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/middleware"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	// 目录浏览
	rg.GET("/categories", c.catalog.ListCategories)
	rg.GET("/categories/:id", c.catalog.GetCategory)
	rg.GET("/categories/:id/topics", c.catalog.ListTopics)

	// 测试浏览
	rg.GET("/tests", c.test.ListTests)
	rg.GET("/tests/:id", c.test.GetTest)

	// 作答会话
	rg.POST("/tests/:id/start", c.session.StartTest)
	rg.GET("/attempts", c.session.ListAttempts)
	rg.PUT("/attempts/:id/responses", c.session.SaveResponse)
	rg.POST("/attempts/:id/questions/:questionId/flag", c.session.ToggleFlag)
	rg.POST("/attempts/:id/submit", c.session.Submit)
	rg.GET("/attempts/:id/results", c.session.GetResults)

	// 进度与徽章
	rg.GET("/progress", c.progress.GetProgress)
	rg.GET("/dashboard", c.progress.GetDashboard)
	rg.GET("/badges", c.badge.ListCatalog)
	rg.GET("/badges/mine", c.badge.ListMine)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		// 类别与知识点维护
		admin.POST("/categories", c.catalog.CreateCategory)
		admin.PUT("/categories/:id", c.catalog.UpdateCategory)
		admin.DELETE("/categories/:id", c.catalog.DeleteCategory)
		admin.POST("/topics", c.catalog.CreateTopic)
		admin.PUT("/topics/:id", c.catalog.UpdateTopic)
		admin.DELETE("/topics/:id", c.catalog.DeleteTopic)

		// 测试创作
		admin.POST("/tests", c.test.CreateTest)
		admin.GET("/tests/:id", c.test.GetTestContent)
		admin.PUT("/tests/:id", c.test.UpdateTest)
		admin.DELETE("/tests/:id", c.test.DeleteTest)
		admin.POST("/tests/:id/publish", c.test.PublishTest)
		admin.POST("/tests/:id/unpublish", c.test.UnpublishTest)

		// 题目维护
		admin.POST("/tests/:id/questions", c.test.CreateQuestion)
		admin.PUT("/tests/:id/questions/:questionId", c.test.UpdateQuestion)
		admin.DELETE("/tests/:id/questions/:questionId", c.test.DeleteQuestion)
		admin.POST("/questions/image", c.test.UploadQuestionImage)
	}
}
