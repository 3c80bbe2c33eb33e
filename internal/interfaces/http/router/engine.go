package router

import (
	"github.com/gin-gonic/gin"
	_ "github.com/storefront/backend/docs"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers the storefront API mounts
type Handlers struct {
	Health   *handler.HealthHandler
	Products *handler.ProductHandler
	Sessions *handler.SessionHandler
	Orders   *handler.OrderHandler
}

// Options configures the middleware stack. Zero values disable the optional parts.
type Options struct {
	ServiceName    string
	TrustedProxies []string
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	MaxBodySize    int64
	RateLimiter    *middleware.RateLimiter
	Session        middleware.SessionConfig
	Swagger        middleware.SwaggerConfig
	Tracing        bool
	MeterProvider  *telemetry.MeterProvider
	Profiling      bool
	Authenticator  middleware.Authenticator
}

// NewEngine builds the gin engine with the full middleware stack and every route.
//
// Order: recovery, request id, tracing, access log, metrics, profiling labels,
// security headers, CORS, body limit, rate limit.
func NewEngine(opts Options, h Handlers, log *zap.Logger) *gin.Engine {
	engine := gin.New()

	if len(opts.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: opts.ServiceName,
		Enabled:     opts.Tracing,
	}))
	if opts.Tracing {
		engine.Use(middleware.SpanAttributes())
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(opts.MeterProvider, log))
	if opts.Profiling {
		engine.Use(middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
	}
	engine.Use(middleware.SecureWithConfig(opts.Security))
	engine.Use(middleware.CORSWithConfig(opts.CORS))
	engine.Use(middleware.BodyLimit(opts.MaxBodySize))
	if opts.RateLimiter != nil {
		engine.Use(middleware.RateLimit(opts.RateLimiter))
	}

	engine.GET("/health", h.Health.Health)
	engine.GET("/health/ready", h.Health.Ready)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(opts.Swagger),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(CatalogRoutes(h.Products)).
		Register(SessionRoutes(h.Sessions, opts.Session)).
		Register(OrderRoutes(h.Orders, opts.Authenticator, log))
	r.Setup()

	return engine
}

// CatalogRoutes are the public product endpoints
func CatalogRoutes(products *handler.ProductHandler) *DomainGroup {
	g := NewDomainGroup("catalog", "/products")
	g.GET("", products.List)
	g.GET("/slug/:slug", products.GetBySlug)
	g.GET("/:id", products.GetByID)
	return g
}

// SessionRoutes are the shopper session endpoints. Every route resolves the session first.
func SessionRoutes(sessions *handler.SessionHandler, cfg middleware.SessionConfig) *DomainGroup {
	g := NewDomainGroup("session", "/session").Use(middleware.Session(cfg))
	g.GET("", sessions.Get)

	cart := g.Group("cart", "/cart")
	cart.DELETE("", sessions.ClearCart)
	cart.POST("/items", sessions.AddItem)
	cart.PATCH("/items/:productId", sessions.UpdateItem)
	cart.DELETE("/items/:productId", sessions.RemoveItem)

	g.PUT("/shipping-address", sessions.SaveShippingAddress)
	g.PUT("/payment-method", sessions.SavePaymentMethod)

	g.POST("/signin", sessions.SignIn)
	g.POST("/signup", sessions.SignUp)
	g.POST("/signout", sessions.SignOut)
	g.PUT("/profile", sessions.UpdateProfile)

	g.GET("/checkout/preview", sessions.CheckoutPreview)
	g.POST("/checkout", sessions.Checkout)
	return g
}

// OrderRoutes are the authenticated order endpoints
func OrderRoutes(orders *handler.OrderHandler, authenticator middleware.Authenticator, log *zap.Logger) *DomainGroup {
	g := NewDomainGroup("orders", "/orders").Use(middleware.RequireAuth(authenticator, log))
	g.POST("", orders.Create)
	g.GET("/mine", orders.ListMine)
	g.GET("/:id", orders.GetByID)
	g.PUT("/:id/pay", orders.Pay)
	g.PUT("/:id/deliver", middleware.RequireAdmin(), orders.Deliver)
	return g
}
