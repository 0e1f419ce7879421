package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"acaihouse/internal/domain"
	accountsvc "acaihouse/internal/service/account"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountService is the slice of the account service the handlers need.
type AccountService interface {
	Signup(ctx context.Context, in accountsvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, userID, name, phone, address string) (*domain.User, error)
	AccessTTLSeconds() int
}

type CatalogService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListComplements(ctx context.Context) ([]domain.Complement, error)
}

type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int, complementIDs []string) (*domain.Cart, error)
	AddCustomAcai(ctx context.Context, userID string, payload domain.CustomPayload, quantity int) (*domain.Cart, error)
	AddCustomProduct(ctx context.Context, userID, name string, payload domain.CustomPayload, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) (*domain.Cart, error)
}

type OrderService interface {
	Checkout(ctx context.Context, userID, address string) (*domain.Order, error)
	ListMine(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	SetStatus(ctx context.Context, orderID, status string) (*domain.Order, error)
	AssignDeliveryPerson(ctx context.Context, orderID, deliveryPersonID string) (*domain.Order, error)
}

type HoursService interface {
	IsOpen(ctx context.Context, at time.Time) (bool, error)
	Schedule(ctx context.Context) ([]domain.StoreHours, error)
	SetSchedule(ctx context.Context, hours []domain.StoreHours) error
}

type DeliveryLister interface {
	ListActive(ctx context.Context) ([]domain.DeliveryPerson, error)
}

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// Deps carries everything the router needs.
type Deps struct {
	AccountSvc AccountService
	CatalogSvc CatalogService
	CartSvc    CartService
	OrderSvc   OrderService
	HoursSvc   HoursService
	Deliveries DeliveryLister
	Products   ProductWriter
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.AccountSvc == nil || deps.CatalogSvc == nil || deps.CartSvc == nil || deps.OrderSvc == nil || deps.HoursSvc == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/auth/signup", signupHandler(deps.AccountSvc))
	router.POST("/auth/login", loginHandler(deps.AccountSvc))

	router.GET("/products", listProductsHandler(deps.CatalogSvc))
	router.GET("/products/:id", getProductHandler(deps.CatalogSvc))
	router.GET("/complements", listComplementsHandler(deps.CatalogSvc))
	router.GET("/store/status", storeStatusHandler(deps.HoursSvc))
	router.GET("/store/hours", storeHoursHandler(deps.HoursSvc))

	authed := router.Group("/", authMiddleware(deps.AccountSvc))
	{
		authed.POST("/auth/logout", logoutHandler(deps.AccountSvc))
		authed.GET("/me", meHandler)
		authed.PATCH("/me", updateProfileHandler(deps.AccountSvc))

		authed.GET("/cart", getCartHandler(deps.CartSvc))
		authed.POST("/cart/items", addCartItemHandler(deps.CartSvc))
		authed.POST("/cart/custom-acai", addCustomAcaiHandler(deps.CartSvc))
		authed.POST("/cart/custom-product", addCustomProductHandler(deps.CartSvc))
		authed.PATCH("/cart/items/:itemId", updateCartItemHandler(deps.CartSvc))
		authed.DELETE("/cart/items/:itemId", removeCartItemHandler(deps.CartSvc))
		authed.DELETE("/cart", clearCartHandler(deps.CartSvc))

		authed.POST("/orders", checkoutHandler(deps.OrderSvc))
		authed.GET("/orders", listMyOrdersHandler(deps.OrderSvc))
	}

	admin := router.Group("/admin", authMiddleware(deps.AccountSvc), adminMiddleware())
	{
		admin.GET("/orders", listAllOrdersHandler(deps.OrderSvc))
		admin.PATCH("/orders/:id/status", setOrderStatusHandler(deps.OrderSvc))
		admin.POST("/orders/:id/delivery-person", assignDeliveryHandler(deps.OrderSvc))
		admin.GET("/delivery-people", listDeliveryHandler(deps.Deliveries))
		admin.PUT("/products", upsertProductHandler(deps.Products))
		admin.PUT("/store/hours", setStoreHoursHandler(deps.HoursSvc))
	}

	return router, nil
}
