// Package router wires handlers, middleware, and route groups into the
// gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/infrastructure/auth"
	"github.com/icepoint/backend/internal/infrastructure/config"
	"github.com/icepoint/backend/internal/infrastructure/logger"
	"github.com/icepoint/backend/internal/interfaces/http/dto"
	"github.com/icepoint/backend/internal/interfaces/http/handler"
	"github.com/icepoint/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	System       *handler.SystemHandler
	Product      *handler.ProductHandler
	Category     *handler.CategoryHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Availability *handler.AvailabilityHandler
	Fleet        *handler.FleetHandler
	User         *handler.UserHandler
	Payment      *handler.PaymentHandler
	Shipping     *handler.ShippingHandler
	Reviews      *handler.ReviewsHandler
}

// New builds the gin engine with the full middleware chain and route table
func New(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, h Handlers) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := dto.RegisterValidations(); err != nil {
		return nil, err
	}

	engine := gin.New()
	if cfg.Tracing.Enabled {
		engine.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	engine.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(corsConfig(cfg)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", h.System.Health)

	api := engine.Group("/api")
	registerPublicRoutes(api, h)
	registerCustomerRoutes(api, jwtService, h)
	registerStaffRoutes(api, jwtService, h)

	return engine, nil
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	return corsCfg
}

// registerPublicRoutes mounts the storefront surface that needs no token
func registerPublicRoutes(api *gin.RouterGroup, h Handlers) {
	api.GET("/system/info", h.System.Info)

	produtos := api.Group("/produtos")
	{
		produtos.GET("", h.Product.List)
		produtos.GET("/destaques", h.Product.ListHighlighted)
		produtos.GET("/:id", h.Product.Get)
	}

	api.GET("/categorias", h.Category.List)
	api.GET("/categorias/:id", h.Category.Get)

	api.GET("/disponibilidade", h.Availability.Check)
	api.POST("/frete/cotacao", h.Shipping.Quote)
	api.GET("/avaliacoes", h.Reviews.Get)

	// Payment provider callbacks carry their own credentials, not ours
	api.POST("/pagamentos/webhook", h.Payment.Webhook)
}

// registerCustomerRoutes mounts the surface for shoppers. Checkout and
// payment initiation accept guests; everything else needs a valid token.
func registerCustomerRoutes(api *gin.RouterGroup, jwtService *auth.JWTService, h Handlers) {
	guest := api.Group("", middleware.OptionalAuth(jwtService))
	{
		guest.POST("/encomendas", h.Order.Checkout)
		guest.POST("/pagamentos/preferencia", h.Payment.CreatePreference)
	}

	authed := api.Group("", middleware.RequireAuth(jwtService))
	{
		authed.GET("/carrinho", h.Cart.Get)
		authed.PUT("/carrinho", h.Cart.Sync)
		authed.POST("/carrinho/transferir", h.Cart.Transfer)

		authed.GET("/encomendas", h.Order.ListMine)
		authed.GET("/encomendas/:id", h.Order.Get)
		authed.POST("/encomendas/:id/cancelar", h.Order.Cancel)

		authed.GET("/usuario/perfil", h.User.GetProfile)
		authed.PUT("/usuario/perfil", h.User.UpdateProfile)
		authed.POST("/usuario/avatar", h.User.UploadAvatar)

		authed.GET("/enderecos", h.User.ListAddresses)
		authed.POST("/enderecos", h.User.CreateAddress)
		authed.PUT("/enderecos/:id", h.User.UpdateAddress)
		authed.PATCH("/enderecos/:id/principal", h.User.SetPrimaryAddress)
		authed.DELETE("/enderecos/:id", h.User.DeleteAddress)
	}
}

// registerStaffRoutes mounts the back-office surface
func registerStaffRoutes(api *gin.RouterGroup, jwtService *auth.JWTService, h Handlers) {
	admin := api.Group("/admin", middleware.RequireAuth(jwtService), middleware.RequireStaff())
	{
		admin.GET("/encomendas", h.Order.List)
		admin.GET("/encomendas/:id", h.Order.Get)
		admin.POST("/encomendas/:id/cancelar", h.Order.Cancel)
		admin.PATCH("/encomendas/:id/status", h.Order.UpdateStatus)
		admin.PATCH("/encomendas/:id/pagamento", h.Order.UpdatePaymentStatus)

		admin.GET("/produtos", h.Product.ListAll)
		admin.POST("/produtos", h.Product.Create)
		admin.PUT("/produtos/:id", h.Product.Update)
		admin.DELETE("/produtos/:id", h.Product.Delete)
		admin.POST("/produtos/:id/imagem", h.Product.UploadImage)

		admin.POST("/categorias", h.Category.Create)
		admin.PUT("/categorias/:id", h.Category.Update)
		admin.DELETE("/categorias/:id", h.Category.Delete)

		admin.GET("/carrinhos", h.Fleet.List)
		admin.GET("/carrinhos/:id", h.Fleet.Get)
		admin.POST("/carrinhos", h.Fleet.Create)
		admin.PUT("/carrinhos/:id", h.Fleet.Update)
		admin.DELETE("/carrinhos/:id", h.Fleet.Delete)
	}
}
