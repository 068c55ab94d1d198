package app

import (
	"coursehub_backend/docs"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/middleware"
	"coursehub_backend/internal/model"
	"coursehub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	secret := cfg.JWT.Secret

	// 1. 公共路由(无需登录)
	registerPublicRoutes(router, c, secret)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(secret))
	{
		registerStudentRoutes(authGroup, c)
	}

	// 3. 讲师相关接口
	instructor := router.Group("/api/instructor")
	instructor.Use(middleware.AuthMiddleware(secret), middleware.RoleMiddleware(model.Instructor))
	{
		registerInstructorRoutes(instructor, c)
	}

	// 4. 管理员相关接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(secret), middleware.RoleMiddleware(model.Admin))
	{
		registerAdminRoutes(admin, c)
	}
}

func registerPublicRoutes(router *gin.Engine, c *controllers, secret string) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 目录
		public.GET("/categories", c.category.List)
		public.GET("/categories/:id", c.category.Get)
		public.GET("/courses", c.course.List)
		public.GET("/courses/:id", c.course.Get)
		public.GET("/courses/:id/lectures", c.lecture.ListByCourse)
		public.GET("/courses/:id/quizzes", c.quiz.ListByCourse)
		public.GET("/courses/:id/reviews", c.review.ListByCourse)
		public.GET("/instructors", c.instructor.List)
		public.GET("/instructors/:id", c.instructor.Get)
		public.GET("/instructors/:id/courses", c.instructor.Courses)
		public.GET("/reviews", c.review.List)
		public.GET("/reviews/:id", c.review.Get)

		// 试看课时允许游客访问
		public.GET("/lectures/:id", middleware.TryAuthMiddleware(secret), c.lecture.Get)

		public.POST("/contact", c.contact.Create)
		public.POST("/ai/chat", c.ai.Chat)
	}
}

func registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	// 用户
	rg.GET("/profile", c.user.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/password", c.user.ChangePassword)

	// 测验
	rg.GET("/quizzes/:id", c.quiz.GetForPlayer)
	rg.POST("/quizzes/:id/submit", c.quiz.Submit)
	rg.GET("/quizzes/:id/results", c.quiz.MyResults)

	// 选课
	rg.POST("/enrollments", c.enrollment.Enroll)
	rg.GET("/enrollments/check", c.enrollment.Check)
	rg.GET("/enrollments/my", c.enrollment.ListMine)
	rg.GET("/enrollments/user/:userId", c.enrollment.ListByUser)
	rg.GET("/enrollments/:id", c.enrollment.Get)
	rg.GET("/enrollments", middleware.RoleMiddleware(model.Admin), c.enrollment.ListAll)
	rg.PUT("/enrollments/:id", middleware.RoleMiddleware(model.Admin), c.enrollment.UpdatePayment)
	rg.DELETE("/enrollments/:id", middleware.RoleMiddleware(model.Admin), c.enrollment.Remove)

	// 笔记
	rg.POST("/notes", c.note.Save)
	rg.GET("/notes/my", c.note.ListMine)
	rg.GET("/notes/lecture/:lectureId", c.note.Get)
	rg.DELETE("/notes/lecture/:lectureId", c.note.Delete)

	// 评价
	rg.POST("/reviews", c.review.Create)
	rg.PUT("/reviews/:id", c.review.Update)
	rg.DELETE("/reviews/:id", c.review.Delete)

	rg.PUT("/instructors/:id", c.instructor.Update)
}

func registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.instructor.Mine)

	// 课程
	rg.POST("/courses", c.course.Create)
	rg.PUT("/courses/:id", c.course.Update)
	rg.DELETE("/courses/:id", c.course.Delete)
	rg.POST("/courses/:id/thumbnail", c.course.UploadThumbnail)

	// 课时
	rg.POST("/lectures", c.lecture.Create)
	rg.PUT("/lectures/:id", c.lecture.Update)
	rg.DELETE("/lectures/:id", c.lecture.Delete)
	rg.POST("/lectures/:id/video", c.lecture.UploadVideo)

	// 测验
	rg.POST("/quizzes", c.quiz.Create)
	rg.GET("/quizzes/:id", c.quiz.GetDetail)
	rg.DELETE("/quizzes/:id", c.quiz.Delete)

	// 选课统计
	rg.GET("/enrollments/:instructorId", c.enrollment.ListByInstructor)
	rg.GET("/enrollments/:instructorId/stats", c.enrollment.InstructorStats)
}

func registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/categories", c.category.Create)
	rg.PUT("/categories/:id", c.category.Update)
	rg.DELETE("/categories/:id", c.category.Delete)

	rg.GET("/contact", c.contact.List)

	rg.GET("/users", c.user.List)
	rg.GET("/users/:id", c.user.Get)
	rg.POST("/instructors", c.instructor.Create)
	rg.DELETE("/instructors/:id", c.instructor.Delete)
	rg.GET("/lectures", c.lecture.ListAll)
}
