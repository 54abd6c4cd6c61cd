package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"taraz-store/internal/config"
	"taraz-store/internal/domain/model"
	pg "taraz-store/internal/infra/db/postgres"
	"taraz-store/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	catalogUC := usecase.NewCatalogUseCase(pg.NewProductRepo(pool), pg.NewCouponRepo(pool))

	// If products already exist, do nothing
	products, err := catalogUC.ListProducts(ctx)
	if err != nil {
		log.Fatalf("list products: %v", err)
	}
	if len(products) > 0 {
		fmt.Printf("%d products already present. No changes.\n", len(products))
		for _, p := range products {
			fmt.Printf("  - %s (id=%s, price=%d Toman)\n", p.Name, p.ID, p.Price)
		}
		return
	}

	scheme := "taraz"
	original := int64(690_000)
	product, err := model.NewProduct("", "مهدیار تراز", "نرم‌افزار حسابداری شخصی", 490_000)
	if err != nil {
		log.Fatalf("new product: %v", err)
	}
	product.OriginalPrice = &original
	product.DeepLinkScheme = &scheme
	if err := catalogUC.SaveProduct(ctx, product); err != nil {
		log.Fatalf("save product: %v", err)
	}
	fmt.Printf("seeded product: %s (id=%s, price=%d Toman)\n", product.Name, product.ID, product.Price)

	coupon, err := model.NewCoupon("", "WELCOME20", model.DiscountPercentage, 20)
	if err != nil {
		log.Fatalf("new coupon: %v", err)
	}
	min := int64(100_000)
	coupon.MinPurchase = &min
	if err := catalogUC.SaveCoupon(ctx, coupon); err != nil {
		log.Fatalf("save coupon: %v", err)
	}
	fmt.Printf("seeded coupon: %s (%d%% off, min=%d Toman)\n", coupon.Code, coupon.DiscountValue, min)

	fmt.Println("✅ Seeding complete.")
}
