package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront-orders/internal/domain"
	cartrepo "storefront-orders/internal/repository/cart"
	"storefront-orders/internal/service/checkout"
	identitysvc "storefront-orders/internal/service/identity"
	ordersvc "storefront-orders/internal/service/order"
	sessionsvc "storefront-orders/internal/service/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Deps carries the services the router needs.
type Deps struct {
	Identity *identitysvc.Service
	Sessions sessionLookup
	Carts    cartrepo.Repository
	Checkout *checkout.Service
	Orders   *ordersvc.Service
	Users    userLookup
}

type sessionLookup interface {
	Lookup(ctx context.Context, accessToken string) (*sessionsvc.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*sessionsvc.Session, error)
	Revoke(ctx context.Context, sess *sessionsvc.Session)
}

type userLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

const sessionCtxKey = "session"

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 1 && corsOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Refresh-Token")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	auth := router.Group("/auth")
	{
		auth.POST("/register", registerHandler(deps.Identity))
		auth.POST("/login", loginHandler(deps.Identity))
		auth.POST("/refresh", refreshHandler(deps.Sessions))
	}

	authed := router.Group("/", authMiddleware(deps.Sessions))
	{
		authed.POST("/auth/logout", logoutHandler(deps.Sessions))
		authed.GET("/cart", getCartHandler(deps.Carts))
		authed.POST("/cart/items", addCartItemHandler(deps.Carts))
		authed.PATCH("/cart/items/:lineId", changeCartItemHandler(deps.Carts))
		authed.POST("/checkout", checkoutHandler(deps.Checkout, deps.Carts))
		authed.GET("/orders", listMyOrdersHandler(deps.Orders))
		authed.GET("/orders/:id", getOrderHandler(deps.Orders))
	}

	admin := router.Group("/admin", authMiddleware(deps.Sessions), adminMiddleware(deps.Users))
	{
		admin.GET("/orders", adminListOrdersHandler(deps.Orders))
		admin.PATCH("/orders/:id/status", adminUpdateStatusHandler(deps.Orders))
	}

	return router, nil
}

// authMiddleware validates the bearer credential and stores the session on
// the request. The refresh token, when the client supplies one, rides along
// so the checkout pipeline can renew mid-flight.
func authMiddleware(sessions sessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		sess, err := sessions.Lookup(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token", "action": "log in again"})
			return
		}
		sess.RefreshToken = strings.TrimSpace(c.GetHeader("X-Refresh-Token"))
		c.Set(sessionCtxKey, sess)
		c.Next()
	}
}

func adminMiddleware(users userLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if sess == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		u, err := users.GetByID(c.Request.Context(), sess.UserID)
		if err != nil || !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *sessionsvc.Session {
	v, ok := c.Get(sessionCtxKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*sessionsvc.Session)
	return sess
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
