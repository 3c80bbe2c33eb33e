package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	sessionapp "github.com/storefront/backend/internal/application/session"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testApp wires real services over an in-memory SQLite database
type testApp struct {
	router   *gin.Engine
	products *persistence.GormProductRepository
	users    *persistence.GormUserRepository
	kv       *cache.InMemoryKVStore
	revoker  *auth.InMemoryTokenRevoker
	jwt      *auth.JWTService
	authSvc  *identityapp.AuthService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(persistence.AllModels()...))

	log := zap.NewNop()
	app := &testApp{
		products: persistence.NewGormProductRepository(db),
		users:    persistence.NewGormUserRepository(db),
		kv:       cache.NewInMemoryKVStore(),
		revoker:  auth.NewInMemoryTokenRevoker(),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:     "handler-test-secret",
			Expiration: time.Hour,
			Issuer:     "storefront-test",
		}),
	}
	app.authSvc = identityapp.NewAuthService(app.users, app.jwt, app.revoker, log)

	policy := pricing.DefaultPolicy()
	orderSvc := orderapp.NewOrderService(persistence.NewGormOrderRepository(db), policy, log)
	registry := sessionapp.NewRegistry(app.kv, nil, log)

	products := NewProductHandler(catalogapp.NewProductService(app.products))
	sessions := NewSessionHandler(
		registry,
		sessionapp.NewCartService(app.products, sessionapp.StockRefresh, log),
		sessionapp.NewCheckoutService(orderSvc, policy, nil, log),
		app.authSvc,
	)
	orders := NewOrderHandler(orderSvc)

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")

	api.GET("/products", products.List)
	api.GET("/products/slug/:slug", products.GetBySlug)
	api.GET("/products/:id", products.GetByID)

	s := api.Group("/session", middleware.Session(middleware.SessionConfig{}))
	s.GET("", sessions.Get)
	s.POST("/cart/items", sessions.AddItem)
	s.PATCH("/cart/items/:productId", sessions.UpdateItem)
	s.DELETE("/cart/items/:productId", sessions.RemoveItem)
	s.DELETE("/cart", sessions.ClearCart)
	s.PUT("/shipping-address", sessions.SaveShippingAddress)
	s.PUT("/payment-method", sessions.SavePaymentMethod)
	s.POST("/signin", sessions.SignIn)
	s.POST("/signup", sessions.SignUp)
	s.POST("/signout", sessions.SignOut)
	s.PUT("/profile", sessions.UpdateProfile)
	s.GET("/checkout/preview", sessions.CheckoutPreview)
	s.POST("/checkout", sessions.Checkout)

	o := api.Group("/orders", middleware.RequireAuth(app.authSvc, log))
	o.POST("", orders.Create)
	o.GET("/mine", orders.ListMine)
	o.GET("/:id", orders.GetByID)
	o.PUT("/:id/pay", orders.Pay)
	o.PUT("/:id/deliver", middleware.RequireAdmin(), orders.Deliver)

	app.router = r
	return app
}

func (a *testApp) addProduct(t *testing.T, name, slug string, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, slug, decimal.NewFromInt(price), stock)
	require.NoError(t, err)
	p.Classify("Nike", "Shirts")
	require.NoError(t, a.products.Save(context.Background(), p))
	return p
}

func (a *testApp) addUser(t *testing.T, name, email, password string, admin bool) *identity.User {
	t.Helper()
	u, err := identity.NewUser(name, email, password)
	require.NoError(t, err)
	u.IsAdmin = admin
	require.NoError(t, a.users.Create(context.Background(), u))
	return u
}

// token signs in through the service and returns the bearer token
func (a *testApp) token(t *testing.T, email, password string) string {
	t.Helper()
	id, err := a.authSvc.SignIn(context.Background(), identityapp.SignInInput{Email: email, Password: password})
	require.NoError(t, err)
	return id.Token
}

type call struct {
	method    string
	path      string
	body      any
	sessionID string
	token     string
}

func (a *testApp) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.sessionID != "" {
		req.Header.Set(middleware.DefaultSessionHeader, c.sessionID)
	}
	if c.token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+c.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// envelope decodes dto.Response with a typed data payload
type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

func requireErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	requireStatus(t, w, status)
	env := decode[json.RawMessage](t, w)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
}

func newSessionID() string {
	return uuid.NewString()
}
