package app

import (
	"ravencode_backend/docs"
	"ravencode_backend/internal/middleware"
	"ravencode_backend/internal/util"
	"ravencode_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(a.Config))
	a.registerStudentRoutes(authGroup, c)

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c)
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
	rg.GET("/lives", c.lives.GetLives)

	// 课程
	rg.GET("/courses", c.content.ListCourses)
	rg.GET("/courses/:id", c.content.GetCourse)

	// 练习
	rg.POST("/practice/start", c.practice.StartPractice)
	rg.POST("/practice/submit", c.practice.SubmitPractice)
	rg.GET("/practice/history", c.practice.GetHistory)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(a.Config), middleware.RoleMiddleware())
	{
		admin.POST("/jobs/weekly-summary", c.job.RunWeeklySummary)
	}

	// 本地存储的周报归档仅管理员可读
	if a.Config.Storage.Type == util.StorageLocal {
		uploads := router.Group("/uploads", middleware.AuthMiddleware(a.Config), middleware.RoleMiddleware())
		uploads.Static("/", a.Config.Storage.LocalPath)
	}
}
