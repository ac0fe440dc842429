// Package main implements a standalone seed script that populates the
// storefront catalog with a starter set of products across the three
// subsidiaries. It connects straight to PostgreSQL, applies migrations,
// and inserts through the product repository so the data matches what the
// service itself would write.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/zenithretail/storefront/pkg/database"
	"github.com/zenithretail/storefront/pkg/logger"

	"github.com/zenithretail/storefront/internal/config"
	"github.com/zenithretail/storefront/internal/domain"
	postgresrepo "github.com/zenithretail/storefront/internal/repository/postgres"
)

type productDef struct {
	name          string
	description   string
	category      string
	subsidiary    domain.Subsidiary
	price         int64 // Naira
	originalPrice int64 // Naira; 0 means not on sale
}

var products = []productDef{
	// Computers subsidiary.
	{"UltraBook 14", "14-inch ultraportable, 16GB RAM, 512GB SSD", "laptops", domain.SubsidiaryComputers, 850_000, 920_000},
	{"UltraBook 16 Pro", "16-inch creator laptop, 32GB RAM, 1TB SSD", "laptops", domain.SubsidiaryComputers, 1_450_000, 0},
	{"Zenith Tower Z5", "Mid-tower desktop for office workloads", "desktops", domain.SubsidiaryComputers, 620_000, 0},
	{"27-inch 4K Monitor", "IPS panel, USB-C with 90W power delivery", "monitors", domain.SubsidiaryComputers, 310_000, 355_000},
	{"Mechanical Keyboard MK2", "Tenkeyless, hot-swappable switches", "accessories", domain.SubsidiaryComputers, 48_000, 0},
	{"Wireless Mouse M10", "Ergonomic, 8 programmable buttons", "accessories", domain.SubsidiaryComputers, 21_500, 0},

	// Books subsidiary.
	{"Things Fall Apart", "Chinua Achebe's classic novel", "fiction", domain.SubsidiaryBooks, 6_500, 0},
	{"Half of a Yellow Sun", "Chimamanda Ngozi Adichie", "fiction", domain.SubsidiaryBooks, 8_200, 9_000},
	{"The Lean Startup", "Eric Ries on building companies", "business-books", domain.SubsidiaryBooks, 12_000, 0},
	{"Introduction to Algorithms", "CLRS, 4th edition hardcover", "textbooks", domain.SubsidiaryBooks, 54_000, 0},
	{"Purple Hibiscus", "Chimamanda Ngozi Adichie's debut", "fiction", domain.SubsidiaryBooks, 5_800, 0},

	// Business subsidiary.
	{"A4 Copier Paper (10 reams)", "80gsm, carton of ten reams", "office-supplies", domain.SubsidiaryBusiness, 38_000, 0},
	{"Executive Office Chair", "High-back mesh, lumbar support", "furniture", domain.SubsidiaryBusiness, 145_000, 172_000},
	{"Standing Desk 140cm", "Dual-motor electric height adjustment", "furniture", domain.SubsidiaryBusiness, 295_000, 0},
	{"Laser Printer LP-400", "Duplex mono laser, 40ppm", "office-equipment", domain.SubsidiaryBusiness, 185_000, 0},
	{"Whiteboard 120x90", "Magnetic dry-erase board with tray", "office-supplies", domain.SubsidiaryBusiness, 27_500, 0},
}

func main() {
	log := logger.New("storefront-seed", "info")

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, &database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}, log)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, postgresrepo.Migrations, log); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repo := postgresrepo.NewProductRepository(pool)
	now := time.Now().UTC()

	var created int
	for _, def := range products {
		product := &domain.Product{
			ID:          uuid.NewString(),
			Name:        def.name,
			Description: def.description,
			Price:       def.price,
			Category:    def.category,
			Subsidiary:  def.subsidiary,
			InStock:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if def.originalPrice > 0 {
			original := def.originalPrice
			product.OriginalPrice = &original
		}

		if err := repo.Create(ctx, product); err != nil {
			log.Error("failed to insert product",
				slog.String("name", def.name),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		created++
	}

	log.Info("catalog seeded", slog.Int("products", created))
}
