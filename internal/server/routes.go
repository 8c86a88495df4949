package server

import (
	"net/http"
	"time"

	"app/internal/handler"
	appmw "app/internal/middleware"
	"app/internal/router"
	"app/internal/service"

	"github.com/labstack/echo/v4"
)

// 全APIルートを登録順で組み立てる。
// 商品の作成・更新・削除と注文ステータス変更はadminロール必須。
func NewRouter(
	jwtService *service.JWTService,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
) *router.Router {
	rt := router.New()

	auth := appmw.AuthJWT(jwtService)
	admin := appmw.AdminRoleGuard()

	// Authentication routes
	rt.POST("/api/auth/register", authH.Register)
	rt.POST("/api/auth/login", authH.Login)
	rt.GET("/api/auth/profile", authH.Profile, auth)
	rt.PUT("/api/auth/profile", authH.UpdateProfile, auth)

	// Product routes（参照は公開、変更はadminのみ）
	rt.GET("/api/products", productH.List)
	rt.GET("/api/products/{id}", productH.Show)
	rt.POST("/api/products", productH.Create, auth, admin)
	rt.PUT("/api/products/{id}", productH.Update, auth, admin)
	rt.DELETE("/api/products/{id}", productH.Destroy, auth, admin)

	// Cart routes
	rt.GET("/api/cart", cartH.Index, auth)
	rt.POST("/api/cart/items", cartH.AddItem, auth)
	rt.PUT("/api/cart/items/{id}", cartH.UpdateItem, auth)
	rt.DELETE("/api/cart/items/{id}", cartH.RemoveItem, auth)
	rt.DELETE("/api/cart", cartH.Clear, auth)

	// Order routes
	rt.GET("/api/orders", orderH.Index, auth)
	rt.GET("/api/orders/{id}", orderH.Show, auth)
	rt.POST("/api/orders", orderH.Store, auth)
	rt.PUT("/api/orders/{id}/status", orderH.UpdateStatus, auth, admin)

	// Health check
	rt.GET("/api/health", healthCheck)

	return rt
}

func healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "OK",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
