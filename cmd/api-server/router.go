// Package main 是应用程序入口
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/liangyue/hotel-booking-backend/internal/common/config"
	"github.com/liangyue/hotel-booking-backend/internal/common/jwt"
	"github.com/liangyue/hotel-booking-backend/internal/common/metrics"
	adminHandler "github.com/liangyue/hotel-booking-backend/internal/handler/admin"
	authHandler "github.com/liangyue/hotel-booking-backend/internal/handler/auth"
	hotelHandler "github.com/liangyue/hotel-booking-backend/internal/handler/hotel"
	paymentHandler "github.com/liangyue/hotel-booking-backend/internal/handler/payment"
	reviewHandler "github.com/liangyue/hotel-booking-backend/internal/handler/review"
	uploadHandler "github.com/liangyue/hotel-booking-backend/internal/handler/upload"
	"github.com/liangyue/hotel-booking-backend/internal/middleware"
	"github.com/liangyue/hotel-booking-backend/internal/repository"
	"github.com/liangyue/hotel-booking-backend/internal/scheduler"
	adminService "github.com/liangyue/hotel-booking-backend/internal/service/admin"
	authService "github.com/liangyue/hotel-booking-backend/internal/service/auth"
	hotelService "github.com/liangyue/hotel-booking-backend/internal/service/hotel"
	paymentService "github.com/liangyue/hotel-booking-backend/internal/service/payment"
	reviewService "github.com/liangyue/hotel-booking-backend/internal/service/review"
	uploadService "github.com/liangyue/hotel-booking-backend/internal/service/upload"
	"github.com/liangyue/hotel-booking-backend/pkg/oss"
)

// setupRouter 设置路由，返回已装配好任务的调度器（由调用方启动）
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) *scheduler.Scheduler {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化仓储
	userRepo := repository.NewUserRepository(db)
	roomTypeRepo := repository.NewRoomTypeRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	roomImageRepo := repository.NewRoomImageRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	logRepo := repository.NewOperationLogRepository(db)

	// 初始化对象存储，未配置密钥时使用内存 Mock
	var uploader oss.Uploader
	if cfg.OSS.AccessKeyID != "" {
		aliyunUploader, err := oss.NewAliyunUploader(&oss.AliyunConfig{
			Endpoint:        cfg.OSS.Endpoint,
			AccessKeyID:     cfg.OSS.AccessKeyID,
			AccessKeySecret: cfg.OSS.AccessKeySecret,
			BucketName:      cfg.OSS.Bucket,
			Domain:          cfg.OSS.CustomDomain,
			BasePath:        cfg.OSS.UploadDir,
		})
		if err != nil {
			logger.Fatal("Failed to init OSS uploader", zap.Error(err))
		}
		uploader = aliyunUploader
	} else {
		logger.Warn("OSS credentials not configured, using in-memory mock uploader")
		uploader = oss.NewMockUploader()
	}

	// 初始化服务
	authSvc := authService.NewAuthService(userRepo, jwtManager)
	roomTypeSvc := hotelService.NewRoomTypeService(roomTypeRepo, redisClient)
	roomSvc := hotelService.NewRoomService(roomRepo, roomTypeRepo, reviewRepo, redisClient)
	bookingSvc := hotelService.NewBookingService(db, bookingRepo, roomRepo)
	paymentSvc := paymentService.NewPaymentService(db, bookingRepo, paymentRepo)
	reviewSvc := reviewService.NewReviewService(reviewRepo, bookingRepo)
	userAdminSvc := adminService.NewUserAdminService(db, userRepo, logRepo)
	bookingAdminSvc := adminService.NewBookingAdminService(bookingRepo)
	uploadSvc := uploadService.NewUploadService(uploader, roomRepo, roomImageRepo)

	// 初始化处理器
	authH := authHandler.NewHandler(authSvc)
	roomH := hotelHandler.NewRoomHandler(roomSvc, roomTypeSvc)
	bookingH := hotelHandler.NewBookingHandler(bookingSvc)
	paymentH := paymentHandler.NewHandler(paymentSvc)
	reviewH := reviewHandler.NewHandler(reviewSvc)
	adminUserH := adminHandler.NewUserHandler(userAdminSvc)
	adminHotelH := adminHandler.NewHotelHandler(roomTypeSvc, roomSvc, bookingAdminSvc, paymentSvc)
	uploadH := uploadHandler.NewHandler(uploadSvc)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(corsConfig(cfg)))
	r.Use(middleware.AccessLog(logger))
	if cfg.Metrics.Enabled {
		r.Use(metrics.GetMetrics().Middleware())
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Prometheus 指标
	if cfg.Metrics.Enabled {
		metricsPath := cfg.Metrics.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		r.GET(metricsPath, metrics.Handler())
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 公开接口（无需认证）
		public := v1.Group("")
		{
			roomH.RegisterRoutes(public)
			reviewH.RegisterRoutes(public)
		}

		// 认证接口带 IP 级限流
		authPublic := v1.Group("")
		if cfg.RateLimit.Enabled {
			authPublic.Use(middleware.LoginRateLimit(redisClient))
		}
		authH.RegisterRoutes(authPublic)

		// 用户端接口（需要认证）
		user := v1.Group("")
		user.Use(middleware.Auth(jwtManager))
		{
			authH.RegisterProtectedRoutes(user)
			reviewH.RegisterProtectedRoutes(user)
			paymentH.RegisterRoutes(user)

			// 预订接口带用户级限流
			booking := user.Group("")
			if cfg.RateLimit.Enabled {
				booking.Use(middleware.BookingRateLimit(redisClient))
			}
			bookingH.RegisterRoutes(booking)
		}

		// 管理端接口（需要管理员认证）
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(jwtManager))
		{
			adminUserH.RegisterRoutes(admin)
			adminHotelH.RegisterRoutes(admin)
			uploadH.RegisterRoutes(admin)
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "接口不存在",
		})
	})

	// 后台维护任务
	sched := scheduler.NewScheduler()
	scheduler.SetupTasks(sched, scheduler.NewTaskHandler(db, roomTypeSvc))
	return sched
}

// corsConfig 根据配置生成 CORS 设置
func corsConfig(cfg *config.Config) *middleware.CORSConfig {
	if len(cfg.CORS.AllowOrigins) == 0 {
		return nil
	}
	c := middleware.DefaultCORSConfig()
	c.AllowOrigins = cfg.CORS.AllowOrigins
	return c
}
