package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"campuslink/internal/config"
	"campuslink/internal/handler"
	adminHandler "campuslink/internal/handler/admin"
	authHandler "campuslink/internal/handler/auth"
	contributorHandler "campuslink/internal/handler/contributor"
	eventHandler "campuslink/internal/handler/event"
	postHandler "campuslink/internal/handler/post"
	"campuslink/internal/pkg/cache"
	"campuslink/internal/pkg/mailer"
	"campuslink/internal/pkg/mongodb"
	"campuslink/internal/pkg/storage"
	"campuslink/internal/pkg/storagefactory"
	authRepo "campuslink/internal/repository/auth"
	contributorRepo "campuslink/internal/repository/contributor"
	eventRepo "campuslink/internal/repository/event"
	postRepo "campuslink/internal/repository/post"
	"campuslink/internal/server/middleware"
	"campuslink/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg     *config.Config
	engine  *gin.Engine
	mongo   *mongodb.Client
	redis   *cache.RedisCache
	storage storage.Storage
}

// New 创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 初始化 MongoDB
	mongoClient, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	// 创建索引（学院Contributor唯一性依赖这里的部分唯一索引）
	if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
		return nil, err
	}

	// 初始化 Redis（邮箱验证码依赖Redis，连接失败直接退出）
	redisCache, err := cache.NewRedisCache(&cfg.Redis)
	if err != nil {
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	// 初始化存储
	store, err := storagefactory.NewStorage(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	log.Info().Str("type", cfg.Storage.Type).Msg("initialized storage")

	srv := &Server{
		cfg:     cfg,
		engine:  engine,
		mongo:   mongoClient,
		redis:   redisCache,
		storage: store,
	}

	// 设置路由
	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler(s.mongo.Client(), s.redis.Client())
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	db := s.mongo.Database()

	// 仓库
	userRepo := authRepo.NewUserRepo(db)
	refreshTokenRepo := authRepo.NewRefreshTokenRepo(db)
	appRepo := contributorRepo.NewApplicationRepo(db)
	posts := postRepo.NewPostRepo(db)
	events := eventRepo.NewEventRepo(db)

	// 邮件
	mail := mailer.NewMailer(&s.cfg.Mail)

	// 服务
	authSvc := service.NewAuthService(
		userRepo,
		refreshTokenRepo,
		s.redis,
		mail,
		s.cfg.Auth.JWTSecret,
		s.cfg.Auth.AccessTokenExpiry,
		s.cfg.Auth.RefreshTokenExpiry,
		s.cfg.Auth.OTPExpiry,
	)
	contributorSvc := service.NewContributorService(appRepo, userRepo, s.storage, mail)
	adminSvc := service.NewAdminService(userRepo, refreshTokenRepo, appRepo, posts, events)
	postSvc := service.NewPostService(posts, s.redis)
	eventSvc := service.NewEventService(events)

	// 处理器
	authHdl := authHandler.NewHandler(authSvc)
	contributorHdl := contributorHandler.NewHandler(contributorSvc)
	adminHdl := adminHandler.NewHandler(adminSvc)
	postHdl := postHandler.NewHandler(postSvc)
	eventHdl := eventHandler.NewHandler(eventSvc)

	// API v1
	v1 := s.engine.Group("/api/v1")
	{
		// 认证接口（公开）
		v1.POST("/auth/register", authHdl.Register)
		v1.POST("/auth/verify-email", authHdl.VerifyEmail)
		v1.POST("/auth/resend-otp", authHdl.ResendOTP)
		v1.POST("/auth/login", authHdl.Login)
		v1.POST("/auth/refresh", authHdl.Refresh)

		// 需要认证的接口
		authed := v1.Group("")
		authed.Use(middleware.Auth(authSvc))
		{
			authed.POST("/auth/logout", authHdl.Logout)
			authed.GET("/auth/me", authHdl.GetMe)

			// Contributor申请（学生侧）
			authed.POST("/contributor/apply", contributorHdl.Apply)
			authed.GET("/contributor/my-application", contributorHdl.GetMyApplication)

			// 动态
			authed.GET("/posts", postHdl.ListFeed)
			authed.GET("/posts/:id", postHdl.GetPost)
			authed.POST("/posts", postHdl.CreatePost)
			authed.DELETE("/posts/:id", postHdl.DeletePost)

			// 活动
			authed.GET("/events", eventHdl.ListEvents)
			authed.GET("/events/:id", eventHdl.GetEvent)
			authed.POST("/events", eventHdl.CreateEvent)
			authed.DELETE("/events/:id", eventHdl.DeleteEvent)
			authed.POST("/events/:id/register", eventHdl.Register)
			authed.DELETE("/events/:id/register", eventHdl.CancelRegistration)

			// 管理员接口
			admin := authed.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// 申请审核
				admin.GET("/contributor/applications", contributorHdl.ListApplications)
				admin.GET("/contributor/applications/:id", contributorHdl.GetApplication)
				admin.PUT("/contributor/applications/:id/approve", contributorHdl.Approve)
				admin.PUT("/contributor/applications/:id/reject", contributorHdl.Reject)
				admin.DELETE("/contributor/applications/:id", contributorHdl.DeleteApplication)

				// 用户管理
				admin.GET("/admin/users", adminHdl.ListUsers)
				admin.GET("/admin/users/:id", adminHdl.GetUser)
				admin.PUT("/admin/users/:id", adminHdl.UpdateUser)
				admin.PUT("/admin/users/:id/verify", adminHdl.VerifyUser)
				admin.PUT("/admin/users/:id/suspend", adminHdl.SuspendUser)
				admin.PUT("/admin/users/:id/reactivate", adminHdl.ReactivateUser)
				admin.DELETE("/admin/users/:id", adminHdl.DeleteUser)
			}
		}
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		// 关闭连接
		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
