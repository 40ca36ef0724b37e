package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/minhvt2810/canteen-api/docs"
	v1 "github.com/minhvt2810/canteen-api/internal/api/handler/v1"
	"github.com/minhvt2810/canteen-api/internal/api/middleware"
	"github.com/minhvt2810/canteen-api/internal/config"
	"github.com/minhvt2810/canteen-api/internal/repository"
	"github.com/minhvt2810/canteen-api/internal/repository/dao"
	"github.com/minhvt2810/canteen-api/internal/service"
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

	// Carts live in process memory, so the cart service is built once and
	// shared between the cart and order handlers.
	cartSvc := s.initCartService(db)

	authHandler := s.initAuthHandler(db)
	menuHandler := s.initMenuHandler(db)
	cartHandler := s.initCartHandler(db, cartSvc)
	orderHandler := s.initOrderHandler(db, cartSvc)
	s.MountHandlers(authHandler, menuHandler, cartHandler, orderHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initMenuHandler(db *gorm.DB) *v1.MenuHandler {
	catalogRepo := repository.NewCatalogRepository(dao.NewCatalogDAO(db))
	stockRepo := repository.NewStockRepository(dao.NewStockDAO(db))
	svc := service.NewCatalogService(catalogRepo, stockRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewMenuHandler(svc, uSvc)

	return handler
}

func (s *Server) initCartService(db *gorm.DB) *service.CartService {
	catalogRepo := repository.NewCatalogRepository(dao.NewCatalogDAO(db))
	stockRepo := repository.NewStockRepository(dao.NewStockDAO(db))

	return service.NewCartService(catalogRepo, stockRepo)
}

func (s *Server) initCartHandler(db *gorm.DB, cartSvc *service.CartService) *v1.CartHandler {
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewCartHandler(cartSvc, uSvc)

	return handler
}

func (s *Server) initOrderHandler(db *gorm.DB, cartSvc *service.CartService) *v1.OrderHandler {
	orderRepo := repository.NewOrderRepository(dao.NewOrderDAO(db))
	stockRepo := repository.NewStockRepository(dao.NewStockDAO(db))
	catalogRepo := repository.NewCatalogRepository(dao.NewCatalogDAO(db))
	checkoutSvc := service.NewCheckoutService(orderRepo, stockRepo, catalogRepo)
	orderSvc := service.NewOrderService(orderRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	handler := v1.NewOrderHandler(checkoutSvc, orderSvc, cartSvc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, menuHandler *v1.MenuHandler, cartHandler *v1.CartHandler, orderHandler *v1.OrderHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/menu-days", menuHandler.HandleListMenuDays)
		authed.GET("/menu-days/:menuDayID", menuHandler.HandleGetMenuDay)

		authed.GET("/cart", cartHandler.HandleGetCart)
		authed.POST("/cart/items", cartHandler.HandleAddCartItem)
		authed.PATCH("/cart/items/:dishID", cartHandler.HandleChangeCartQuantity)
		authed.DELETE("/cart/items/:dishID", cartHandler.HandleRemoveCartItem)
		authed.DELETE("/cart", cartHandler.HandleClearCart)

		authed.POST("/orders", orderHandler.HandleCheckout)
		authed.GET("/orders", orderHandler.HandleListOrders)
		authed.GET("/orders/:orderID", orderHandler.HandleGetOrder)
		authed.DELETE("/orders/:orderID", orderHandler.HandleWithdrawOrder)

		// Staff routes do their own role check so a customer gets 403
		// instead of 404.
		authed.POST("/staff/menu-days", menuHandler.HandleCreateMenuDay)
		authed.POST("/staff/menu-days/:menuDayID/dishes", menuHandler.HandleAttachDish)
		authed.PATCH("/staff/menu-days/:menuDayID/dishes/:dishID/stock", menuHandler.HandleSetStock)
		authed.GET("/staff/orders", orderHandler.HandleListMenuDayOrders)
		authed.PATCH("/staff/orders/:orderID/status", orderHandler.HandleSetOrderStatus)
		authed.DELETE("/staff/orders/:orderID", orderHandler.HandleWithdrawOrder)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Canteen Pre-Order API"
	docs.SwaggerInfo.Description = "Meal pre-ordering for the staff canteen."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
