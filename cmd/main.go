package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	httpctx "github.com/adarshalexbalmuchu/nextnode/internal/api/http/context"
	"github.com/adarshalexbalmuchu/nextnode/internal/api/http/router"
	"github.com/adarshalexbalmuchu/nextnode/internal/cache"
	"github.com/adarshalexbalmuchu/nextnode/internal/config"
	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
	"github.com/adarshalexbalmuchu/nextnode/internal/repository/postgres"
	"github.com/adarshalexbalmuchu/nextnode/internal/server"
	"github.com/adarshalexbalmuchu/nextnode/internal/service"
	storage "github.com/adarshalexbalmuchu/nextnode/internal/storage/minio"
	"github.com/adarshalexbalmuchu/nextnode/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	postRepo := postgres.NewPostRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	bookmarkRepo := postgres.NewBookmarkRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)

	tokenManager := token.NewJWT(cfg.JWT.Secret)
	ctxMgr := httpctx.NewManager()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PublicURL)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	requestCache := cache.New(newRedisClient(ctx, cfg.Redis.Addr, logger), logger)
	cacheTTL := time.Duration(cfg.Redis.CacheTTL) * time.Second

	sessionService := service.NewSessionService(tokenManager, refreshTokenRepo, logger)
	authService := service.NewAuth(userRepo, profileRepo, sessionService, logger)
	blogService := service.NewBlog(postRepo, categoryRepo, profileRepo, storageClient, ctxMgr, logger)
	commentService := service.NewComments(commentRepo, ctxMgr, logger)
	bookmarkService := service.NewBookmarks(bookmarkRepo, ctxMgr, logger)
	userService := service.NewUsers(profileRepo, ctxMgr, logger)

	unsubscribe := authService.Subscribe(func(event model.AuthEvent, session *model.Session) {
		if session != nil {
			logger.Debug("session changed", "event", event, "user_id", session.User.ID)
		} else {
			logger.Debug("session changed", "event", event)
		}
	})
	defer unsubscribe()
	authService.Restore(ctx)

	r := router.New(
		authService,
		blogService,
		commentService,
		bookmarkService,
		userService,
		sessionService,
		ctxMgr,
		requestCache,
		cacheTTL,
		db,
		logger,
	)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newRedisClient connects to redis when an address is configured. A missing
// or unreachable redis only disables the request cache.
func newRedisClient(ctx context.Context, addr string, logger *logger.Logger) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, request cache disabled", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}

	return client
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
