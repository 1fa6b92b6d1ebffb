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

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"

	gql "github.com/filevault/filevault-server/internal/api/graphql"
	httpapi "github.com/filevault/filevault-server/internal/api/http"
	"github.com/filevault/filevault-server/internal/api/http/middleware"
	"github.com/filevault/filevault-server/internal/config"
	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/repository/postgres"
	"github.com/filevault/filevault-server/internal/request"
	"github.com/filevault/filevault-server/internal/seed"
	"github.com/filevault/filevault-server/internal/service"
	storage "github.com/filevault/filevault-server/internal/storage/minio"
	"github.com/filevault/filevault-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

var rootCmd = &cobra.Command{
	Use:   "filevault-server",
	Short: "Authenticated file storage backend",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the development test user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed()
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, seedCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

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
	fileRepo := postgres.NewFileRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)
	ctxMgr := request.NewManager()

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

	authService := service.NewAuth(userRepo, tokenManager, logger)
	fileService := service.NewFile(fileRepo, storageClient, ctxMgr, cfg.Upload.MaxSizeBytes, logger)

	schema, err := gql.CreateSchema(logger, authService, fileService)
	if err != nil {
		logger.Fatal("failed to create graphql schema", "error", err)
	}

	gqlHandler := httpapi.NewGraphQLHandler(schema, cfg.Upload.MaxSizeBytes, logger)
	authenticate := middleware.NewAuthenticate(tokenManager, ctxMgr, logger)

	var tlsConf *httpapi.TLSConfig
	if cfg.HTTP.EnableHTTPS {
		tlsConf = &httpapi.TLSConfig{
			CertFileName:       cfg.HTTP.CertFileName,
			PrivateKeyFileName: cfg.HTTP.PrivateKeyFileName,
		}
	}

	httpServer := httpapi.NewServer(httpapi.Options{
		Addr:         fmt.Sprintf(":%s", cfg.HTTP.Port),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTP.IdleTimeoutSec) * time.Second,
		TLS:          tlsConf,
	}, gqlHandler, authenticate, db, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}()

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

	return nil
}

func runSeed() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer db.Close()

	return seed.Run(ctx, postgres.NewUserRepository(db), seed.Params{
		Email:    cfg.Seed.Email,
		Password: cfg.Seed.Password,
		Name:     cfg.Seed.Name,
	}, logger)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
