package provider

import (
	"github.com/megano-shop/internal/cache"
	"github.com/megano-shop/internal/config"
	"github.com/megano-shop/internal/logger"
	"github.com/megano-shop/internal/models"
	"github.com/megano-shop/internal/repository"
	"github.com/megano-shop/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	// Repositories
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	ReviewRepo   repository.ReviewRepository
	CartRepo     repository.CartRepository
	OrderRepo    repository.OrderRepository
	PaymentRepo  repository.PaymentRepository

	// Services
	UserAuthService *service.UserAuthService
	ProductService  *service.ProductService
	CartService     *service.CartService
	OrderService    *service.OrderService
	PaymentService  *service.PaymentService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{Config: cfg}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
}

func (c *Container) initServices() {
	c.UserAuthService = service.NewUserAuthService(c.Config.JWT, c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.ReviewRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.CartRepo)
	c.PaymentService = service.NewPaymentService(c.OrderRepo, c.PaymentRepo)
}
