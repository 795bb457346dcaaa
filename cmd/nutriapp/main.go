package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/terraincognita07/nutriapp/internal/api"
	"github.com/terraincognita07/nutriapp/internal/cli"
	"github.com/terraincognita07/nutriapp/internal/db"
	"github.com/terraincognita07/nutriapp/internal/security"
	"github.com/terraincognita07/nutriapp/internal/services"
	"github.com/terraincognita07/nutriapp/internal/storage"
	"github.com/terraincognita07/nutriapp/internal/vision"
)

const (
	minJWTSecretLength = 32
	requestBodyLimit   = 10 << 20
	mediaRoute         = "/media"
	defaultTimezone    = "America/Lima"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("read .env: %v", err)
	}

	if len(os.Args) > 1 {
		if err := runCommand(os.Args[1], os.Args[2:]); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := runServer(); err != nil {
		log.Fatal(err)
	}
}

func runCommand(name string, args []string) error {
	switch name {
	case "recompute-targets":
		return cli.RunRecomputeTargetsCommand(context.Background(), databaseConfig(), os.Stdout)
	case "issue-token":
		if len(args) != 1 {
			return errors.New("usage: nutriapp issue-token <user-id>")
		}
		secret, err := resolveJWTSecret()
		if err != nil {
			return err
		}
		ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		return cli.RunIssueTokenCommand([]byte(secret), os.Getenv("AUTH_JWT_AUDIENCE"), args[0], ttl, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q (expected recompute-targets or issue-token)", name)
	}
}

func runServer() error {
	location := services.ResolveTimezone(getEnv("DEFAULT_TZ", defaultTimezone))

	secret, err := resolveJWTSecret()
	if err != nil {
		return err
	}
	port, err := resolvePort()
	if err != nil {
		return err
	}

	dbConfig := databaseConfig()
	database, err := db.Open(dbConfig)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	lifecycleCtx, cancelLifecycle := context.WithCancel(context.Background())
	defer cancelLifecycle()

	images, mediaDir, err := openImageStore(lifecycleCtx, port)
	if err != nil {
		return fmt.Errorf("storage init failed: %w", err)
	}

	analyzer, err := vision.NewOpenAI(vision.Config{
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		BaseURL:     os.Getenv("OPENAI_BASE_URL"),
		VisionModel: os.Getenv("VISION_MODEL"),
		TextModel:   os.Getenv("TEXT_MODEL"),
	})
	if err != nil {
		return fmt.Errorf("vision init failed: %w", err)
	}

	tokens, err := security.NewTokenVerifier([]byte(secret), os.Getenv("AUTH_JWT_AUDIENCE"))
	if err != nil {
		return fmt.Errorf("token verifier init failed: %w", err)
	}

	repositories := db.NewRepositories(database)
	reports := services.NewReportService(repositories.Meals, repositories.Users)
	handler, err := api.NewHandler(api.Dependencies{
		Tokens:   tokens,
		Profiles: services.NewProfileService(repositories.Users),
		Meals:    services.NewMealService(repositories.Meals, images),
		Reports:  reports,
		Analysis: services.NewAnalysisService(analyzer, repositories.Users, reports),
		Location: location,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "NutriApp",
		DisableStartupMessage: true,
		BodyLimit:             requestBodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New())

	if mediaDir != "" {
		app.Static(mediaRoute, mediaDir)
	}
	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		cancelLifecycle()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("NutriApp listening on http://0.0.0.0:%s (db: %s, tz: %s)", port, describeDatabase(dbConfig), location.String())
	if err := app.Listen(":" + port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

// openImageStore returns the configured store and, for the local driver, the
// directory to serve under /media.
func openImageStore(ctx context.Context, port string) (storage.ObjectStore, string, error) {
	switch strings.ToLower(getEnv("STORAGE_DRIVER", "local")) {
	case "local":
		dir := getEnv("STORAGE_DIR", filepath.Join("data", "media"))
		baseURL := getEnv("STORAGE_PUBLIC_URL", "http://localhost:"+port+mediaRoute)
		store, err := storage.NewLocalStore(dir, baseURL)
		if err != nil {
			return nil, "", err
		}
		return store, dir, nil
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:  os.Getenv("S3_BUCKET"),
			Region:  os.Getenv("S3_REGION"),
			BaseURL: os.Getenv("STORAGE_PUBLIC_URL"),
		})
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	default:
		return nil, "", fmt.Errorf("unsupported STORAGE_DRIVER %q", os.Getenv("STORAGE_DRIVER"))
	}
}

func databaseConfig() db.Config {
	return db.Config{
		Driver:     getEnv("DB_DRIVER", db.DriverSQLite),
		SQLitePath: getEnv("DB_PATH", filepath.Join("data", "nutriapp.db")),
		DSN:        os.Getenv("DATABASE_URL"),
	}
}

func describeDatabase(cfg db.Config) string {
	if strings.EqualFold(cfg.Driver, db.DriverSQLite) || cfg.Driver == "" {
		return cfg.SQLitePath
	}
	return cfg.Driver
}

func resolveJWTSecret() (string, error) {
	secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET"))
	switch {
	case secret == "":
		return "", errors.New("AUTH_JWT_SECRET is required")
	case secret == "change_me_in_production":
		return "", errors.New("AUTH_JWT_SECRET uses an insecure placeholder")
	case len(secret) < minJWTSecretLength:
		return "", fmt.Errorf("AUTH_JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", "8080")
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
