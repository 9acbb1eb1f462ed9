package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"post-board/cmd/api/auth"
	"post-board/cmd/api/metrics"
	"post-board/cmd/api/ratelimit"
	"post-board/cmd/api/router"
	"post-board/cmd/api/services"
	"post-board/internal/logger"
	"post-board/config"
	"post-board/db"
	"post-board/eventbus"
	"post-board/repositories"
	"post-board/repositories/memory"
)

const eventQueueSize = 1024

// @title           Post Board API
// @version         1.0
// @description     CRUD API for posts and users with bearer authentication and rate limiting
// @BasePath        /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init("post-board-api", cfg.Logging.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		logger.Log.Errorf("failed to initialize token service: %v", err)
		os.Exit(1)
	}
	passwords := auth.NewPasswordHasher(cfg.Password.Cost)

	// 저장소 초기화
	var (
		postStore repositories.PostStore
		userStore repositories.UserStore
		mongoDB   *db.Mongo
	)
	switch cfg.Storage.Driver {
	case "memory":
		postStore = memory.NewPostStore()
		userStore = memory.NewUserStore()
		logger.Log.Warn("using in-memory storage, data is lost on restart")
	default:
		mongoDB = db.New(cfg.Mongo)
		// 연결 실패는 치명적이지 않다. 다음 요청에서 다시 연결을 시도한다.
		warmCtx, warmCancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
		if _, err := mongoDB.Database(warmCtx); err != nil {
			logger.WarnWithFields("mongo not reachable at startup", logger.Fields{"error": err.Error()})
		}
		warmCancel()
		postStore = repositories.NewPostRepository(mongoDB)
		userStore = repositories.NewUserRepository(mongoDB)
	}

	// rate limit 카운터 저장소
	var limitStore ratelimit.Store
	if cfg.Redis.URL != "" {
		rs, err := ratelimit.NewRedisStore(ctx, cfg.Redis.URL, cfg.Redis.Prefix, maxWindow(cfg.RateLimit))
		if err != nil {
			logger.Log.Errorf("failed to connect to redis: %v", err)
			os.Exit(1)
		}
		defer rs.Close()
		limitStore = rs
	} else {
		ms := ratelimit.NewMemoryStore(cfg.RateLimit.MaxEntries, maxWindow(cfg.RateLimit))
		go sweepLoop(ctx, ms, cfg.RateLimit.SweepInterval)
		limitStore = ms
	}
	usersLimiter := ratelimit.NewLimiter(limitStore, "users", cfg.RateLimit.Users.Limit, cfg.RateLimit.Users.Window)
	postsLimiter := ratelimit.NewLimiter(limitStore, "posts", cfg.RateLimit.Posts.Limit, cfg.RateLimit.Posts.Window)

	// EventBus 초기화 및 토픽 보장
	topics := eventbus.NewTopics(cfg.Kafka.TopicPrefix)
	var inner eventbus.Publisher = eventbus.NoopBus{}
	if brokers := cfg.Kafka.BootstrapServers; brokers != "" {
		if cfg.Kafka.EnsureTopics {
			if err := eventbus.EnsureTopics(brokers, topics.All(), cfg.Kafka.Partitions); err != nil {
				logger.Log.Errorf("failed to ensure eventbus topics: %v", err)
			}
		}
		kb, err := eventbus.NewKafkaEventBus(brokers)
		if err != nil {
			logger.Log.Errorf("failed to create event bus: %v", err)
			os.Exit(1)
		}
		inner = kb
	}
	bus := eventbus.NewAsyncPublisher(inner, eventQueueSize, cfg.Kafka.PublishTimeout)

	m := metrics.New()
	emitter := services.NewEventEmitter(bus, topics, m)

	deps := router.Deps{
		Posts:        services.NewPostService(postStore, emitter),
		Users:        services.NewUserService(userStore, passwords, tokens, emitter),
		Tokens:       tokens,
		UsersLimiter: usersLimiter,
		PostsLimiter: postsLimiter,
		Metrics:      m,
		CORSOrigins:  cfg.CORS.AllowedOrigins,
	}
	if mongoDB != nil {
		deps.DB = mongoDB
	}
	if cfg.Seeder.Enabled {
		deps.Seeder = services.NewSeedService(postStore, cfg.Seeder.MaxCount)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router.New(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoWithFields("starting api server", logger.Fields{
			"addr":    cfg.Server.Addr,
			"storage": cfg.Storage.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown 설정
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Log.Info("received shutdown signal, shutting down api server...")
	case err := <-serverErr:
		logger.Log.Errorf("api server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("server shutdown: %v", err)
	}

	cancel()
	bus.Close()
	if mongoDB != nil {
		if err := mongoDB.Close(shutdownCtx); err != nil {
			logger.Log.Errorf("mongo disconnect: %v", err)
		}
	}

	logger.Log.Info("api server stopped")
}

// maxWindow 는 스코프 중 가장 긴 윈도우다. 카운터 TTL 로 사용한다.
func maxWindow(c config.RateLimitConfig) time.Duration {
	if c.Users.Window > c.Posts.Window {
		return c.Users.Window
	}
	return c.Posts.Window
}

func sweepLoop(ctx context.Context, store ratelimit.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.Sweep(ctx, now)
			if err != nil {
				logger.WarnWithFields("rate limit sweep failed", logger.Fields{"error": err.Error()})
				continue
			}
			if n > 0 {
				logger.DebugWithFields("rate limit entries swept", logger.Fields{"removed": n})
			}
		}
	}
}
