package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"aecom-checkout/internal/client"
	"aecom-checkout/internal/config"
	"aecom-checkout/internal/logger"
	"aecom-checkout/internal/repository"
	"aecom-checkout/internal/server"
	"aecom-checkout/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := client.InitSqliteClient(cfg.DatabasePath)
	if err != nil {
		log.Fatal("ledger database init failed", zap.Error(err))
	}

	stripeClient := client.NewStripeClient(&cfg.Stripe)
	strapiClient := client.NewStrapiClient(&cfg.Strapi)

	webhookEventRepo := repository.NewWebhookEventRepository(db)

	catalogService := service.NewCatalogService(strapiClient, log)
	skuResolver := service.NewSkuResolver(stripeClient, log)
	checkoutService := service.NewCheckoutService(stripeClient, cfg.BaseURL, log)
	fulfillmentService := service.NewFulfillmentService(
		stripeClient,
		skuResolver,
		catalogService,
		webhookEventRepo,
		log,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(checkoutService, fulfillmentService, log)

	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
