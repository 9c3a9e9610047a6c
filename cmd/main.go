package main

import (
	"context"
	"database/sql"
	"entrehive-backend/config"
	"entrehive-backend/internal/api/accounts"
	"entrehive-backend/internal/api/contact"
	"entrehive-backend/internal/api/feed"
	"entrehive-backend/internal/api/messages"
	"entrehive-backend/internal/api/notifications"
	"entrehive-backend/internal/api/posts"
	"entrehive-backend/internal/api/projects"
	"entrehive-backend/internal/api/universities"
	"entrehive-backend/internal/middleware"
	"entrehive-backend/internal/repository/mysql"
	"entrehive-backend/internal/service"
	"entrehive-backend/internal/storage"
	"entrehive-backend/internal/util"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接
	if err = db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	util.Logger.Info("数据库连接池配置完成")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("graduation_year", util.ValidateGraduationYear)
	}

	// 确保上传文件夹存在
	ensureUploadsFolder()

	// 根据配置选择存储后端
	fileStorage, err := storage.New()
	if err != nil {
		util.Logger.Fatal("初始化存储后端失败", zap.Error(err))
	}

	// 初始化存储库
	userRepo := mysql.NewUserRepository(db)
	postRepo := mysql.NewPostRepository(db)
	feedRepo := mysql.NewFeedRepository(db)
	universityRepo := mysql.NewUniversityRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)
	contactRepo := mysql.NewContactRepository(db)
	projectRepo := mysql.NewProjectRepository(db)
	messageRepo := mysql.NewMessageRepository(db)

	// 初始化服务
	userService := service.NewUserService(userRepo, notificationRepo)
	emailService := service.NewEmailService(userRepo)
	postService := service.NewPostService(postRepo, userRepo, projectRepo, feedRepo, notificationRepo)
	feedService := service.NewFeedService(feedRepo, postRepo, userRepo)
	universityService := service.NewUniversityService(universityRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	contactService := service.NewContactService(contactRepo, emailService)
	projectService := service.NewProjectService(projectRepo)
	messageService := service.NewMessageService(messageRepo, userRepo)

	// 初始化处理器
	authHandler := accounts.NewAuthHandler(userService)
	profileHandler := accounts.NewProfileHandler(userService, fileStorage)
	followHandler := accounts.NewFollowHandler(userService)
	postHandler := posts.NewPostHandler(postService, userService, fileStorage)
	commentHandler := posts.NewCommentHandler(postService, userService)
	feedHandler := feed.NewFeedHandler(feedService, postService)
	universityHandler := universities.NewUniversityHandler(universityService)
	notificationHandler := notifications.NewNotificationHandler(notificationService)
	contactHandler := contact.NewContactHandler(contactService)
	projectHandler := projects.NewProjectHandler(projectService, postService)
	messageHandler := messages.NewMessageHandler(messageService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 设置 Gin 路由
	r := gin.Default()

	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Access-Control-Allow-Origin",
	}
	r.Use(cors.New(corsConfig))

	// 静态文件的CORS处理
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
		}
		c.Next()
	})

	// 配置静态文件服务
	r.Static("/uploads", config.AppConfig.LocalStoragePath)

	auth := middleware.AuthMiddleware(userService)
	optionalAuth := middleware.OptionalAuthMiddleware(userService)
	staff := middleware.StaffMiddleware(userService)

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 认证相关路由
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh-token", authHandler.RefreshToken)
		api.POST("/auth/request-password-reset", authHandler.RequestPasswordReset)
		api.POST("/auth/reset-password", authHandler.ResetPassword)
		api.GET("/auth/verify-email", authHandler.VerifyEmail)
		api.GET("/auth/check-username", authHandler.CheckUsername)
		api.GET("/auth/check-email", authHandler.CheckEmail)
		api.POST("/auth/logout", auth, authHandler.Logout)
		api.POST("/auth/change-password", auth, authHandler.ChangePassword)

		// 资料相关路由
		api.GET("/profiles/me", auth, profileHandler.GetMe)
		api.PUT("/profiles/me", auth, profileHandler.UpdateMe)
		api.POST("/profiles/me/picture", auth, profileHandler.UploadProfilePicture)
		api.DELETE("/profiles/me/picture", auth, profileHandler.DeleteProfilePicture)
		api.DELETE("/profiles/me", auth, profileHandler.DeleteMe)
		api.GET("/profiles", optionalAuth, profileHandler.ListProfiles)
		api.GET("/profiles/stats", profileHandler.GetProfileStats)
		api.GET("/profiles/search", profileHandler.SearchUsers)
		api.GET("/profiles/:username", optionalAuth, profileHandler.GetProfileByUsername)

		// 关注相关路由
		api.POST("/users/:id/follow", auth, followHandler.Follow)
		api.DELETE("/users/:id/follow", auth, followHandler.Unfollow)
		api.GET("/users/:id/followers", followHandler.GetFollowers)
		api.GET("/users/:id/following", followHandler.GetFollowing)
		api.GET("/users/suggestions", auth, followHandler.GetSuggestions)

		// 帖子相关路由
		api.POST("/posts", auth, postHandler.CreatePost)
		api.POST("/posts/image", auth, postHandler.UploadPostImage)
		api.GET("/posts", optionalAuth, postHandler.ListPosts)
		api.GET("/posts/my", auth, postHandler.MyPosts)
		api.GET("/posts/search", optionalAuth, postHandler.SearchPosts)
		api.GET("/posts/hashtag", optionalAuth, postHandler.SearchHashtag)
		api.GET("/posts/:id", optionalAuth, postHandler.GetPost)
		api.PUT("/posts/:id", auth, postHandler.UpdatePost)
		api.DELETE("/posts/:id", auth, postHandler.DeletePost)
		api.GET("/users/:id/posts", optionalAuth, postHandler.ListUserPosts)

		// 互动相关路由
		api.POST("/posts/:id/like", auth, postHandler.ToggleLike)
		api.GET("/posts/:id/likes", optionalAuth, postHandler.GetLikes)
		api.POST("/posts/:id/share", auth, postHandler.SharePost)
		api.POST("/posts/:id/comments", auth, commentHandler.CreateComment)
		api.GET("/posts/:id/comments", optionalAuth, commentHandler.GetComments)
		api.PUT("/comments/:id", auth, commentHandler.UpdateComment)
		api.DELETE("/comments/:id", auth, commentHandler.DeleteComment)

		// 信息流相关路由
		api.GET("/feed", auth, feedHandler.GetFeed)
		api.GET("/feed/config", auth, feedHandler.GetConfig)
		api.PATCH("/feed/config", auth, feedHandler.UpdateConfig)
		api.GET("/feed/trending", feedHandler.GetTrendingTopics)

		// 高校目录相关路由
		api.GET("/universities", universityHandler.ListUniversities)
		api.GET("/universities/types", universityHandler.ListTypes)
		api.GET("/universities/:id", universityHandler.GetUniversity)
		api.GET("/universities/country/:country", universityHandler.ListByCountry)
		api.POST("/universities/verify-email", universityHandler.VerifyEmail)
		api.GET("/universities/search-by-domain", universityHandler.SearchByDomain)

		// 通知相关路由
		api.GET("/notifications", auth, notificationHandler.ListNotifications)
		api.GET("/notifications/unread-count", auth, notificationHandler.UnreadCount)
		api.POST("/notifications/:id/read", auth, notificationHandler.MarkAsRead)
		api.POST("/notifications/read-all", auth, notificationHandler.MarkAllAsRead)
		api.DELETE("/notifications/read", auth, notificationHandler.ClearRead)

		// 项目相关路由
		api.POST("/projects", auth, projectHandler.CreateProject)
		api.GET("/projects", optionalAuth, projectHandler.ListProjects)
		api.GET("/projects/search", optionalAuth, projectHandler.SearchProjects)
		api.GET("/projects/:id", optionalAuth, projectHandler.GetProject)

		// 私信相关路由
		api.POST("/conversations", auth, messageHandler.StartConversation)
		api.GET("/conversations", auth, messageHandler.ListConversations)
		api.GET("/conversations/inbox-stats", auth, messageHandler.GetInboxStats)
		api.GET("/conversations/:id", auth, messageHandler.GetConversation)
		api.POST("/conversations/:id/archive", auth, messageHandler.ArchiveConversation)
		api.POST("/conversations/:id/unarchive", auth, messageHandler.UnarchiveConversation)
		api.POST("/conversations/:id/messages", auth, messageHandler.SendMessage)
		api.GET("/conversations/:id/messages", auth, messageHandler.ListMessages)
		api.POST("/messages/:id/read", auth, messageHandler.MarkMessageAsRead)

		// 联系咨询路由
		api.POST("/contact", contactHandler.SubmitInquiry)

		// 工作人员路由组
		staffRoutes := api.Group("/staff")
		staffRoutes.Use(auth, staff)
		{
			staffRoutes.GET("/inquiries", contactHandler.ListInquiries)
			staffRoutes.GET("/inquiries/:id", contactHandler.GetInquiry)
			staffRoutes.PATCH("/inquiries/:id", contactHandler.UpdateInquiry)
			staffRoutes.POST("/universities", universityHandler.CreateUniversity)
			staffRoutes.POST("/universities/:id/refresh-stats", universityHandler.RefreshStats)
		}
	}

	// 创建一个带有超时的 http.Server
	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// 确保上传文件夹存在
func ensureUploadsFolder() {
	uploadsPath := config.AppConfig.LocalStoragePath
	if err := os.MkdirAll(uploadsPath, 0755); err != nil {
		util.Logger.Fatal("创建上传文件夹失败", zap.Error(err), zap.String("path", uploadsPath))
	}
	util.Logger.Info("上传文件夹已创建或已存在", zap.String("path", uploadsPath))
}
