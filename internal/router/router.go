package router

import (
	"fmt"
	"strings"

	"github.com/megano-shop/internal/cache"
	"github.com/megano-shop/internal/config"
	publichandlers "github.com/megano-shop/internal/http/handlers/public"
	"github.com/megano-shop/internal/logger"
	"github.com/megano-shop/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mg"
	}
	redisClient := cache.Client()
	signInRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:sign_in", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many sign-in attempts",
	}
	paymentRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:payment", redisPrefix),
		WindowSeconds: cfg.Security.PaymentRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.PaymentRateLimit.MaxAttempts,
		Message:       "too many payment attempts",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(UserAuthMiddleware(c.UserAuthService, cfg.JWT.CookieName))

	// API 路由组
	api := r.Group("/api")
	{
		// 目录
		api.GET("/catalog", handler.GetCatalog)
		api.GET("/banners", handler.ListBanners)
		api.GET("/products/popular", handler.PopularProducts)
		api.GET("/products/limited", handler.LimitedProducts)
		api.GET("/categories", handler.ListCategories)
		api.GET("/product/:id", handler.GetProduct)
		api.GET("/product/:id/reviews", handler.ListReviews)
		api.POST("/product/:id/reviews", handler.AddReview)

		// 购物车
		api.GET("/basket", handler.GetBasket)
		api.POST("/basket", handler.AddToBasket)
		api.DELETE("/basket", handler.RemoveFromBasket)

		// 订单
		api.POST("/orders", handler.CreateOrder)
		api.GET("/orders", handler.ListOrders)
		api.GET("/order/:id", handler.GetOrder)
		api.POST("/order/:id", handler.UpdateOrderStatus)

		// 支付
		api.GET("/payment/:id", handler.GetPaymentStatus)
		api.POST("/payment/:id", RateLimitMiddleware(redisClient, paymentRule, KeyByIP), handler.SubmitPayment)

		// 用户
		api.POST("/sign-up", handler.SignUp)
		api.POST("/sign-in", RateLimitMiddleware(redisClient, signInRule, KeyByIPAndJSONField("username")), handler.SignIn)
		api.POST("/sign-out", handler.SignOut)
		api.GET("/profile", handler.GetProfile)
		api.POST("/profile", handler.UpdateProfile)
		api.POST("/profile/password", handler.UpdatePassword)
	}

	return r
}
