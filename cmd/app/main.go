package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"postpurchase/cmd"
	server "postpurchase/internal/adapters/in/http"
	"postpurchase/internal/adapters/out/postgres"
	"postpurchase/internal/jobs"
	"postpurchase/internal/pkg/telemetry"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	defaultGatewayTimeout  = 10 * time.Second
	defaultReconcileWindow = 15 * time.Minute
	defaultSchedule        = "0 */5 * * * *"
	shutdownTimeout        = 10 * time.Second
)

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
	configs := getConfigs()
	logger := telemetry.InitLogger(configs.LogLevel)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn(configs)), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error getting database handle: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	jobManager, err := jobs.NewJobManager(app.CreateReconcileRefundsCommandHandler(), jobs.ReconciliationConfig{
		Schedule: configs.RefundReconcileSchedule,
		Deadline: configs.RefundReconcileDeadline,
	}, prometheus.DefaultRegisterer, logger)
	if err != nil {
		log.Fatalf("Error creating jobs: %v", err)
	}
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	startWebServer(ctx, server.NewServer(sqlDB, prometheus.DefaultGatherer), configs.HTTPPort)
}

func getConfigs() cmd.Config {
	return cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		LogLevel:   goDotEnvVariable("LOG_LEVEL"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		PaymentProvider:          goDotEnvVariable("PAYMENT_PROVIDER"),
		PaymentGatewayURL:        goDotEnvVariable("PAYMENT_GATEWAY_URL"),
		PaymentGatewayToken:      goDotEnvVariable("PAYMENT_GATEWAY_TOKEN"),
		PaymentGatewayTimeout:    durationVariable("PAYMENT_GATEWAY_TIMEOUT", defaultGatewayTimeout),
		PaymentGatewayMaxRetries: uintVariable("PAYMENT_GATEWAY_MAX_RETRIES", 2),
		StripeAPIKey:             goDotEnvVariable("STRIPE_API_KEY"),
		StripeCurrency:           goDotEnvVariable("STRIPE_CURRENCY"),

		RefundReconcileSchedule: stringVariable("REFUND_RECONCILE_SCHEDULE", defaultSchedule),
		RefundReconcileDeadline: durationVariable("REFUND_RECONCILE_DEADLINE", defaultReconcileWindow),
	}
}

func goDotEnvVariable(key string) string {
	return os.Getenv(key)
}

func stringVariable(key, fallback string) string {
	if v := goDotEnvVariable(key); v != "" {
		return v
	}
	return fallback
}

func durationVariable(key string, fallback time.Duration) time.Duration {
	v := goDotEnvVariable(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return d
}

func uintVariable(key string, fallback uint64) uint64 {
	v := goDotEnvVariable(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return n
}

func dsn(c cmd.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func startWebServer(ctx context.Context, s *server.Server, port string) {
	e := echo.New()
	e.HideBanner = true
	s.Register(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
