package adminservice

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"uno-qr-menu/internal/adminservice"
	"uno-qr-menu/internal/gateway"
	"uno-qr-menu/pkg/config"
	"uno-qr-menu/pkg/db"
	"uno-qr-menu/pkg/logger"
	"uno-qr-menu/pkg/rabbitmq"

	"github.com/joho/godotenv"
)

func Main() {
	port := flag.Int("port", 3002, "HTTP port for the admin API")
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	_ = godotenv.Load()

	logger := logger.NewLogger("admin-service")
	logger.Info("startup", "service_started", "Admin Service starting")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("startup", "config_load_failed", "Failed to load configuration", err)
		log.Fatal(err)
	}

	pool, err := db.ConnectDB(&cfg.Database, logger)
	if err != nil {
		logger.Error("startup", "db_connection_failed", "Failed to connect to database", err)
		log.Fatal(err)
	}
	defer pool.Close()

	mq, err := rabbitmq.ConnectRabbitMQ(&cfg.RabbitMQ, logger)
	if err != nil {
		logger.Error("startup", "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err)
		log.Fatal(err)
	}
	defer mq.Close()

	gw := gateway.NewGateway(pool, mq, logger, &cfg.App)
	svc := adminservice.NewService(gw, &cfg.App, logger)
	handler := adminservice.NewHandler(svc, logger)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(*port),
		Handler: handler.Routes(),
	}

	go func() {
		logger.Info("startup", "http_listening", "Admin Service listening on port "+strconv.Itoa(*port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("startup", "server_start_failed", "Failed to start server", err)
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown", "graceful_shutdown", "Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "shutdown_failed", "Server forced to shutdown", err)
		log.Fatal(err)
	}

	logger.Info("shutdown", "service_stopped", "Server exiting")
}
