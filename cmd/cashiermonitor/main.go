package cashiermonitor

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"uno-qr-menu/internal/cashiermonitor"
	"uno-qr-menu/internal/gateway"
	"uno-qr-menu/pkg/config"
	"uno-qr-menu/pkg/db"
	"uno-qr-menu/pkg/logger"
	"uno-qr-menu/pkg/rabbitmq"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func Main() {
	port := flag.Int("port", 3001, "HTTP port for the cashier dashboard API")
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	sound := flag.Bool("sound", true, "Enable audio alerts on startup")
	flag.Parse()

	_ = godotenv.Load()

	logger := logger.NewLogger("cashier-monitor")
	logger.Info("startup", "service_started", "Cashier Monitor starting")

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
	sounder := cashiermonitor.NewLogSounder(logger)
	monitor := cashiermonitor.NewMonitor(gw, gw, sounder, &cfg.App, logger)
	monitor.SetSoundEnabled(*sound)
	handler := cashiermonitor.NewHandler(monitor, logger)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(*port),
		Handler: handler.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return monitor.Start(ctx)
	})

	g.Go(func() error {
		logger.Info("startup", "http_listening", "Cashier Monitor listening on port "+strconv.Itoa(*port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown", "graceful_shutdown", "Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("shutdown", "shutdown_failed", "Service exited with error", err)
		log.Fatal(err)
	}

	logger.Info("shutdown", "service_stopped", "Server exiting")
}
