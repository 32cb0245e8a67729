package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/gathorapp/outings-api/docs"
	v1 "github.com/gathorapp/outings-api/internal/api/handler/v1"
	"github.com/gathorapp/outings-api/internal/api/middleware"
	"github.com/gathorapp/outings-api/internal/config"
	"github.com/gathorapp/outings-api/internal/repository"
	"github.com/gathorapp/outings-api/internal/repository/dao"
	"github.com/gathorapp/outings-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	outingRepo := repository.NewOutingRepository(dao.NewOutingDAO(db))
	participationRepo := repository.NewParticipationRepository(dao.NewParticipationDAO(db))
	voucherRepo := repository.NewVoucherRepository(dao.NewVoucherDAO(db))
	notificationRepo := repository.NewNotificationRepository(dao.NewNotificationDAO(db))

	notificationSvc := service.NewNotificationService(notificationRepo)
	voucherSvc := service.NewVoucherService(voucherRepo, participationRepo, outingRepo, userRepo, notificationSvc)
	participationSvc := service.NewParticipationService(participationRepo, outingRepo, userRepo, notificationSvc, voucherSvc)
	outingSvc := service.NewOutingService(outingRepo, userRepo)
	userSvc := service.NewUserService(userRepo)
	authSvc := service.NewAuthService(userRepo)

	s.MountHandlers(
		v1.NewAuthHandler(conf.API, authSvc),
		v1.NewUserHandler(userSvc),
		v1.NewOutingHandler(outingSvc, userSvc),
		v1.NewParticipationHandler(participationSvc, userSvc),
		v1.NewVoucherHandler(voucherSvc, outingSvc, userSvc),
		v1.NewNotificationHandler(notificationSvc, userSvc),
	)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	outingHandler *v1.OutingHandler,
	participationHandler *v1.ParticipationHandler,
	voucherHandler *v1.VoucherHandler,
	notificationHandler *v1.NotificationHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/users/:userID", userHandler.HandleGetUser)

		authenticated.GET("/outings", outingHandler.HandleListOutings)
		authenticated.GET("/outings/mine", outingHandler.HandleListMyOutings)
		authenticated.GET("/outings/:outingID", outingHandler.HandleGetOuting)
		authenticated.POST("/outings", outingHandler.HandleCreateOuting)

		authenticated.POST("/outings/:outingID/participations", participationHandler.HandleRequestJoin)
		authenticated.GET("/outings/:outingID/participations", participationHandler.HandleListByOuting)
		authenticated.GET("/participations/mine", participationHandler.HandleListMine)
		authenticated.POST("/participations/:participationID/approve", participationHandler.HandleApprove)
		authenticated.POST("/participations/:participationID/reject", participationHandler.HandleReject)
		authenticated.DELETE("/participations/:participationID", participationHandler.HandleWithdraw)

		authenticated.GET("/events", outingHandler.HandleListEvents)
		authenticated.POST("/events", outingHandler.HandleCreateEvent)
		authenticated.GET("/events/:eventID/rewards", voucherHandler.HandleListRewards)
		authenticated.POST("/events/:eventID/rewards", voucherHandler.HandleCreateReward)

		authenticated.GET("/vouchers", voucherHandler.HandleListVouchers)
		authenticated.POST("/vouchers/redeem", voucherHandler.HandleRedeemVoucher)

		authenticated.GET("/notifications", notificationHandler.HandleListNotifications)
		authenticated.GET("/notifications/unread-count", notificationHandler.HandleUnreadCount)
		authenticated.POST("/notifications/:notificationID/read", notificationHandler.HandleMarkRead)
		authenticated.POST("/notifications/read-all", notificationHandler.HandleMarkAllRead)
	}

	docs.SwaggerInfo.BasePath = basePath
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
