package main

import (
	"log/slog"
	"os"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/localstore"
	infraRepo "app/internal/infra/repository"
	repo "app/internal/repository"
	"app/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くても起動できる（本番は環境変数で渡す）
	if err := godotenv.Load("../.env"); err != nil {
		slog.Info(".env not loaded", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
	); err != nil {
		slog.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	//ゲストカート用Redis
	redisClient, err := db.ConnectRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		slog.Error("redis connect failed", "err", err)
		os.Exit(1)
	}

	//Repository（GORM実装）生成
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartItemRepo := infraRepo.NewCartItemGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)

	//ゲストカートはセッションIDごとのRedisスロット
	localStores := func(sessionID string) repo.LocalCartStore {
		return localstore.NewRedisLocalCartStore(redisClient, sessionID)
	}

	//Handler生成
	cartH := handler.NewCartHandler(localStores, cartRepo, cartItemRepo, productRepo)

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, cfg, cartH); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
