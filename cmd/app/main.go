package main

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/vendormitra/vendormitra-backend/internal/cart"
	"github.com/vendormitra/vendormitra-backend/internal/config"
	"github.com/vendormitra/vendormitra-backend/internal/notification"
	"github.com/vendormitra/vendormitra-backend/internal/order"
	"github.com/vendormitra/vendormitra-backend/internal/payment"
	"github.com/vendormitra/vendormitra-backend/internal/product"
	"github.com/vendormitra/vendormitra-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		db = mustOpenDB(cfg.DatabaseURL)
		defer db.Close()
		ensureSchema(db)
	}

	// repositories: Postgres when configured, in-memory otherwise
	var (
		userRepo    user.Repository
		productRepo product.Repository
		orderRepo   order.Repository
		notifRepo   notification.Repository
		cartStore   cart.Store
	)
	if db != nil {
		userRepo = user.NewPostgresRepository(db)
		productRepo = product.NewPostgresRepository(db)
		orderRepo = order.NewPostgresRepository(db)
		notifRepo = notification.NewPostgresRepository(db)
		cartStore = cart.NewPostgresStore(db)
	} else {
		log.Println("DATABASE_URL not set, using in-memory repositories")
		userRepo = user.NewInMemoryRepository(nil)
		productRepo = product.NewInMemoryRepository(nil)
		orderRepo = order.NewInMemoryRepository(nil)
		notifRepo = notification.NewInMemoryRepository(nil)
		cartStore = cart.NewMemoryStore()
	}
	// cart snapshots prefer Redis when available
	if cfg.RedisAddr != "" {
		cartStore = cart.NewRedisStore(cfg.RedisAddr)
	}

	hub := notification.NewHub()

	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService, cfg.JWTSecret)

	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	cartService := cart.NewService(cartStore, productService)
	cartHandler := cart.NewHandler(cartService)

	orderService := order.NewService(orderRepo, cartService, productService, hub)
	orderHandler := order.NewHandler(orderService)

	notifService := notification.NewService(notifRepo)
	notifService.ListenTo(hub)
	notifHandler := notification.NewHandler(notifService)

	paymentClient := payment.NewClient(payment.Config{
		APIKey:    cfg.InstamojoAPIKey,
		AuthToken: cfg.InstamojoAuthToken,
		Salt:      cfg.InstamojoSalt,
		BaseURL:   cfg.InstamojoBaseURL,
	})
	paymentHandler := payment.NewHandler(paymentClient, orderService, userService)

	// public routes
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	paymentHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	// protected routes
	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	notifHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(url string) *sql.DB {
	db, err := sql.Open("pgx", url)
	if err != nil {
		panic(err)
	}
	if err := db.Ping(); err != nil {
		panic(err)
	}
	return db
}

// ensureSchema creates the tables on first run so a fresh database works
// without a separate migration step.
func ensureSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
            id uuid PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL,
            full_name TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            business_name TEXT,
            address TEXT,
            city TEXT,
            pincode TEXT,
            profile_completed BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TEXT NOT NULL DEFAULT '',
            updated_at TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id uuid PRIMARY KEY,
            supplier_id uuid NOT NULL,
            name TEXT NOT NULL,
            description TEXT,
            price numeric NOT NULL DEFAULT 0,
            unit TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            stock_quantity INT NOT NULL DEFAULT 0,
            min_order_quantity INT NOT NULL DEFAULT 1,
            image_url TEXT,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TEXT NOT NULL DEFAULT '',
            updated_at TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id uuid PRIMARY KEY,
            order_number TEXT NOT NULL,
            vendor_id uuid NOT NULL,
            supplier_id uuid NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending',
            payment_status TEXT NOT NULL DEFAULT 'pending',
            payment_id TEXT,
            total_amount numeric NOT NULL DEFAULT 0,
            items jsonb NOT NULL DEFAULT '[]',
            delivery_address TEXT NOT NULL DEFAULT '',
            notes TEXT,
            created_at timestamptz NOT NULL DEFAULT now(),
            updated_at timestamptz NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS notifications (
            id uuid PRIMARY KEY,
            user_id uuid NOT NULL,
            title TEXT NOT NULL,
            message TEXT NOT NULL,
            type TEXT NOT NULL DEFAULT 'info',
            is_read BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS cart_snapshots (
            key TEXT PRIMARY KEY,
            snapshot jsonb NOT NULL DEFAULT '[]',
            updated_at timestamptz NOT NULL DEFAULT now()
        )`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
