package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagent"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/ragops/kbconsole/internal/api"
	"github.com/ragops/kbconsole/internal/bedrock"
	"github.com/ragops/kbconsole/internal/config"
	"github.com/ragops/kbconsole/internal/repository"
	"github.com/ragops/kbconsole/internal/service"
	"github.com/ragops/kbconsole/internal/storage"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize metadata store (knowledge bases and document records;
	// document bytes live in S3, the searchable index in Bedrock)
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	kbRepo := repository.NewKnowledgeBaseRepository(db)
	docRepo := repository.NewDocumentRepository(db)

	// Initialize AWS clients
	awsOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWS.Region),
	}
	if cfg.AWS.AccessKeyID != "" {
		awsOpts = append(awsOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsOpts...)
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}

	// The bucket may live in a different region than the Bedrock clients
	s3Cfg := awsCfg.Copy()
	s3Cfg.Region = cfg.S3.Region

	store := storage.NewS3Store(s3.NewFromConfig(s3Cfg), cfg.S3.Bucket, cfg.S3.Region)
	bedrockClient := bedrock.NewClient(
		bedrockagent.NewFromConfig(awsCfg),
		bedrockagentruntime.NewFromConfig(awsCfg),
		bedrock.Config{
			KnowledgeBaseID: cfg.Bedrock.KnowledgeBaseID,
			DataSourceID:    cfg.Bedrock.DataSourceID,
			ModelARN:        cfg.Bedrock.ModelARN,
		},
	)

	// Initialize services
	kbService := service.NewKnowledgeBaseService(kbRepo)
	docService := service.NewDocumentService(kbRepo, docRepo, store, bedrockClient, logger)
	queryService := service.NewQueryService(bedrockClient)

	// Setup router
	handler := api.NewHandler(kbService, docService, queryService, logger)
	router := api.SetupRouter(handler, api.RouterConfig{
		AllowOrigins: []string{cfg.Server.FrontendOrigin},
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting kbconsole server",
			zap.String("address", cfg.Address()),
			zap.String("knowledge_base_id", cfg.Bedrock.KnowledgeBaseID),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
