package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/orders-dashboard/internal/api"
	"github.com/orders-dashboard/internal/config"
	"github.com/orders-dashboard/internal/events"
	handler "github.com/orders-dashboard/internal/http"
	"github.com/orders-dashboard/internal/logger"
	"github.com/orders-dashboard/internal/navigate"
	"github.com/orders-dashboard/internal/notify"
	"github.com/orders-dashboard/internal/repo"
	"github.com/orders-dashboard/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "orders-dashboard")
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	if cfg.Backend.Token != "" {
		client.SetAuthToken(cfg.Backend.Token)
	}

	hub := notify.NewHub(log)
	hub.Start()
	defer hub.Stop()

	router := navigate.NewRouter(hub)
	publishers := events.NewFanOut()

	var activity handler.ActivityLister
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatal("failed to open database", zap.Error(err))
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		log.Info("connected to database")

		if err := repo.RunMigrations(ctx, db); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		log.Info("migrations applied")

		activityRepo := repo.NewPostgresActivityRepository(db)
		publishers.Add("postgres", events.NewAuditPublisher(activityRepo))
		activity = activityRepo
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal("invalid redis url", zap.Error(err))
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		log.Info("connected to redis")
		publishers.Add("redis", events.NewRedisPublisher(redisClient))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		defer kafkaPublisher.Close()
		publishers.Add("kafka", kafkaPublisher)
		log.Info("kafka activity stream enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	svcCfg := service.Config{
		API:                 client,
		Sink:                hub,
		Navigator:           router,
		InstanceID:          cfg.InstanceID,
		RedirectDelay:       cfg.Navigation.RedirectDelay,
		StatusRedirectDelay: cfg.Navigation.StatusRedirectDelay,
	}
	if publishers.Len() > 0 {
		svcCfg.Publisher = publishers
	}
	orderService := service.NewOrderService(logger.WithContext(ctx, log), svcCfg)
	defer orderService.Close()

	if redisClient != nil {
		consumer := events.NewConsumer(redisClient, orderService, cfg.InstanceID, log)
		go func() {
			if err := consumer.Subscribe(ctx); err != nil {
				log.Error("activity subscription stopped", zap.Error(err))
			}
		}()
	}

	if cfg.Refresh.Schedule != "" {
		refresh := service.NewRefreshScheduler(orderService, log)
		if err := refresh.Start(ctx, cfg.Refresh.Schedule); err != nil {
			log.Fatal("invalid refresh schedule", zap.String("schedule", cfg.Refresh.Schedule), zap.Error(err))
		}
		defer refresh.Stop()
	}

	h := handler.NewHandler(orderService, hub, router, hub, activity)
	stopState := h.StreamState()
	defer stopState()

	// event streams end when shutdown starts
	baseCtx, cancelBase := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     handler.NewRouter(h, log, cfg.CORS.AllowedOrigins),
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelBase)

	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("instance_id", cfg.InstanceID))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	cancel()
	hub.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("error closing redis connection", zap.Error(err))
		}
	}

	log.Info("server exiting")
}
