package main

import (
	"context"
	"log"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 24 * time.Hour

func main() {
	// .envは無くても動く（本番は環境変数直）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	inventoryRepo := infraRepo.NewInventoryGormRepository(gormDB)
	statsRepo := infraRepo.NewStatsGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	// 初期管理者（env指定時のみ）
	if err := seedAdmin(cfg, userRepo); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// Redis（任意）。未設定ならキャッシュなしで動く。
	var productCache usecase.ProductCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unavailable, running without cache: %v", err)
		} else {
			productCache = cache.New(rdb, "product:", 5*time.Minute)
		}
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, []byte(cfg.JWTSecret), accessTokenTTL)
	productUC := usecase.NewProductUsecase(productRepo, productCache)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager)
	orderUC := usecase.NewOrderUsecase(txManager)
	adminProductUC := usecase.NewAdminProductUsecase(productRepo, inventoryRepo, productCache)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager)
	dashboardUC := usecase.NewDashboardUsecase(statsRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:           handler.NewAuthHandler(authUC),
		Product:        handler.NewProductHandler(productUC),
		Cart:           handler.NewCartHandler(cartUC),
		Checkout:       handler.NewCheckoutHandler(checkoutUC),
		Order:          handler.NewOrderHandler(orderUC),
		AdminProduct:   handler.NewAdminProductHandler(adminProductUC),
		AdminOrder:     handler.NewAdminOrderHandler(adminOrderUC),
		AdminDashboard: handler.NewAdminDashboardHandler(dashboardUC),
	}

	//Server起動
	e := server.New(cfg, handlers)
	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// seedAdmin はADMIN_EMAIL/ADMIN_PASSWORDが揃っているとき、
// 同じemailのユーザーがまだ居なければ管理者を1人作る。
func seedAdmin(cfg config.Config, userRepo *infraRepo.UserGormRepository) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	ctx := context.Background()

	_, exists, err := userRepo.FindByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), 12)
	if err != nil {
		return err
	}

	_, err = userRepo.Create(ctx, model.User{
		Name:         "Admin",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return err
	}

	log.Printf("admin user seeded: %s", cfg.AdminEmail)
	return nil
}
