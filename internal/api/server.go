package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/al3-rom/wannago/docs"
	v1 "github.com/al3-rom/wannago/internal/api/handler/v1"
	"github.com/al3-rom/wannago/internal/api/middleware"
	"github.com/al3-rom/wannago/internal/config"
	"github.com/al3-rom/wannago/internal/pkg/hashid"
	"github.com/al3-rom/wannago/internal/pkg/mail"
	"github.com/al3-rom/wannago/internal/pkg/upload"
	"github.com/al3-rom/wannago/internal/repository"
	"github.com/al3-rom/wannago/internal/repository/dao"
	"github.com/al3-rom/wannago/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	ids    *hashid.Codec
	mailer *mail.SMTPMailer
	gate   *service.Gate
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	ids, err := hashid.NewCodec(conf.API.HashIDSalt)
	if err != nil {
		return nil, fmt.Errorf("hashid.NewCodec -> %w", err)
	}

	blockRepo := repository.NewBlockRepository(dao.NewBlockDAO(db))

	s := &Server{
		Config: conf,
		Router: engine,
		ids:    ids,
		mailer: mail.NewSMTPMailer(conf.SMTP),
		gate:   service.NewGate(blockRepo),
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	productHandler := s.initProductHandler(db)
	offerHandler := s.initOfferHandler(db)
	blockHandler := s.initBlockHandler(db)
	uploadHandler, err := s.initUploadHandler()
	if err != nil {
		return nil, err
	}
	s.MountHandlers(db, authHandler, userHandler, productHandler, offerHandler, blockHandler, uploadHandler)

	return s, nil
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	repo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewAuthService(repo, s.mailer, s.ids, s.Config.API.BaseURL)
	handler := v1.NewAuthHandler(s.Config.API, svc, s.ids)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	productRepo := repository.NewProductRepository(dao.NewProductDAO(db))
	offerRepo := repository.NewOfferRepository(dao.NewOfferDAO(db))
	blockRepo := repository.NewBlockRepository(dao.NewBlockDAO(db))
	svc := service.NewUserService(userRepo, productRepo, offerRepo, blockRepo, s.mailer, s.ids, s.gate, s.Config.API.BaseURL)
	balanceSvc := service.NewOfferService(offerRepo, productRepo, blockRepo, s.gate)
	handler := v1.NewUserHandler(svc, balanceSvc, s.ids)

	return handler
}

func (s *Server) initProductHandler(db *gorm.DB) *v1.ProductHandler {
	productRepo := repository.NewProductRepository(dao.NewProductDAO(db))
	offerRepo := repository.NewOfferRepository(dao.NewOfferDAO(db))
	blockRepo := repository.NewBlockRepository(dao.NewBlockDAO(db))
	svc := service.NewProductService(productRepo, offerRepo, blockRepo, s.gate)
	handler := v1.NewProductHandler(svc, s.ids)

	return handler
}

func (s *Server) initOfferHandler(db *gorm.DB) *v1.OfferHandler {
	offerRepo := repository.NewOfferRepository(dao.NewOfferDAO(db))
	productRepo := repository.NewProductRepository(dao.NewProductDAO(db))
	blockRepo := repository.NewBlockRepository(dao.NewBlockDAO(db))
	svc := service.NewOfferService(offerRepo, productRepo, blockRepo, s.gate)
	handler := v1.NewOfferHandler(svc, s.ids)

	return handler
}

func (s *Server) initBlockHandler(db *gorm.DB) *v1.BlockHandler {
	blockRepo := repository.NewBlockRepository(dao.NewBlockDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	productRepo := repository.NewProductRepository(dao.NewProductDAO(db))
	offerRepo := repository.NewOfferRepository(dao.NewOfferDAO(db))
	svc := service.NewBlockService(blockRepo, userRepo, productRepo, offerRepo, s.gate)
	handler := v1.NewBlockHandler(svc, s.ids)

	return handler
}

func (s *Server) initUploadHandler() (*v1.UploadHandler, error) {
	store, err := upload.NewStore(s.Config.API.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload.NewStore -> %w", err)
	}

	return v1.NewUploadHandler(store), nil
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(db *gorm.DB, authHandler *v1.AuthHandler, userHandler *v1.UserHandler, productHandler *v1.ProductHandler, offerHandler *v1.OfferHandler, blockHandler *v1.BlockHandler, uploadHandler *v1.UploadHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
		auth.GET("/auth/verify/:userID/:token", authHandler.HandleVerifyEmail)
		auth.POST("/auth/resend-verification", authHandler.HandleResendVerification)
	}

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey, userRepo).VerifyJWT())
	{
		authed.GET("/users", userHandler.HandleListUsers)
		authed.POST("/users", userHandler.HandleCreateUser)
		authed.GET("/users/:userID", userHandler.HandleGetUser)
		authed.PUT("/users/:userID", userHandler.HandleUpdateUser)
		authed.DELETE("/users/:userID", userHandler.HandleDeleteUser)
		authed.POST("/users/:userID/block", blockHandler.HandleBlockUser)
		authed.DELETE("/users/:userID/block", blockHandler.HandleUnblockUser)

		authed.GET("/profile", userHandler.HandleGetProfile)
		authed.PUT("/profile", userHandler.HandleUpdateProfile)
		authed.POST("/contact", userHandler.HandleContact)

		authed.GET("/categories", productHandler.HandleListCategories)
		authed.GET("/products", productHandler.HandleListProducts)
		authed.POST("/products", productHandler.HandleCreateProduct)
		authed.GET("/products/mine", productHandler.HandleMyProducts)
		authed.GET("/products/:productID", productHandler.HandleGetProduct)
		authed.PUT("/products/:productID", productHandler.HandleUpdateProduct)
		authed.DELETE("/products/:productID", productHandler.HandleDeleteProduct)
		authed.POST("/products/:productID/block", blockHandler.HandleBlockProduct)
		authed.DELETE("/products/:productID/block", blockHandler.HandleUnblockProduct)

		authed.POST("/offers", offerHandler.HandleCreateOffer)
		authed.PUT("/offers/:offerID", offerHandler.HandleUpdateOfferPrice)
		authed.DELETE("/offers/:offerID", offerHandler.HandleWithdrawOffer)
		authed.POST("/offers/:offerID/accept", offerHandler.HandleAcceptOffer)
		authed.POST("/offers/:offerID/revert", offerHandler.HandleRevertOffer)

		authed.GET("/purchases/pending", offerHandler.HandlePendingPurchases)
		authed.GET("/purchases/accepted", offerHandler.HandleAcceptedPurchases)
		authed.GET("/purchases/inactive", offerHandler.HandleInactivePurchases)
		authed.GET("/sales/pending", offerHandler.HandlePendingSales)
		authed.GET("/sales/accepted", offerHandler.HandleAcceptedSales)
		authed.GET("/sales/inactive", offerHandler.HandleInactiveSales)
		authed.PUT("/sales/:offerID/instructions", offerHandler.HandleUpdateInstructions)

		authed.POST("/admin/unblock", blockHandler.HandleBulkUnblock)
		authed.GET("/admin/blocks", blockHandler.HandleBlockOverview)

		authed.POST("/uploads", uploadHandler.HandleUpload)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Wannago Marketplace API"
	docs.SwaggerInfo.Description = "Second-hand marketplace with offer negotiation and moderation."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
