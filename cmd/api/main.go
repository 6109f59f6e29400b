package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/azudev4/linkodo-sub001/anchor"
	"github.com/azudev4/linkodo-sub001/api"
	"github.com/azudev4/linkodo-sub001/crawl"
	"github.com/azudev4/linkodo-sub001/crawlapi"
	"github.com/azudev4/linkodo-sub001/db"
	"github.com/azudev4/linkodo-sub001/embed"
	"github.com/azudev4/linkodo-sub001/htmlmeta"
	"github.com/azudev4/linkodo-sub001/match"
	"github.com/azudev4/linkodo-sub001/metrics"
	"github.com/azudev4/linkodo-sub001/storage"
)

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("indexing service initializing", "version", "1.0.0")

	// Default values
	defaultPort := getEnv("PORT", "8080")
	defaultCrawlURL := getEnv("CRAWL_API_URL", "https://api.firecrawl.dev")
	defaultEmbedURL := getEnv("OPENAI_BASE_URL", "https://api.openai.com")
	defaultEmbedModel := getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small")

	// Command-line flags (override environment variables)
	port := flag.String("port", defaultPort, "Server port")
	crawlURL := flag.String("crawl-api-url", defaultCrawlURL, "Crawling service base URL")
	embedURL := flag.String("openai-base-url", defaultEmbedURL, "Embedding service base URL")
	embedModel := flag.String("openai-embed-model", defaultEmbedModel, "Embedding model")
	disableCORS := flag.Bool("disable-cors", false, "Disable CORS")
	flag.Parse()

	// PostgreSQL database configuration (required)
	dbHost := getEnv("DB_HOST", "")
	if dbHost == "" {
		logger.Error("DB_HOST environment variable is required")
		os.Exit(1)
	}

	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "linkodo")
	dbPassword := getEnv("DB_PASSWORD", "linkodo_dev_pass")
	dbName := getEnv("DB_NAME", "linkodo")

	database, err := db.New(db.Config{
		DSN: fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort, dbUser, dbPassword, dbName),
	})
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	logger.Info("using PostgreSQL database", "host", dbHost, "port", dbPort, "database", dbName)

	// External service clients. Both degrade to 503 responses on their
	// routes when the keys are absent.
	crawlClient := crawlapi.NewClient(*crawlURL, getEnv("CRAWL_API_KEY", ""))
	if !crawlClient.Configured() {
		logger.Warn("CRAWL_API_KEY not set, crawl endpoints disabled")
	}
	embedClient := embed.NewClient(*embedURL, getEnv("OPENAI_API_KEY", ""), *embedModel)
	if !embedClient.Configured() {
		logger.Warn("OPENAI_API_KEY not set, embedding and match endpoints disabled")
	}

	// Raw markdown archival: S3 when a bucket is configured, local
	// filesystem when a path is, disabled otherwise.
	var archiver crawl.Archiver
	if bucket := getEnv("S3_BUCKET", ""); bucket != "" {
		s3Store, err := storage.NewS3Storage(context.Background(), storage.S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          bucket,
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getEnv("S3_USE_PATH_STYLE", "") == "true",
		})
		if err != nil {
			logger.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		archiver = s3Store
		logger.Info("archiving raw markdown to S3", "bucket", bucket)
	} else if basePath := getEnv("STORAGE_BASE_PATH", ""); basePath != "" {
		fsStore, err := storage.New(storage.Config{BasePath: basePath})
		if err != nil {
			logger.Error("failed to initialize filesystem storage", "error", err)
			os.Exit(1)
		}
		archiver = fsStore
		logger.Info("archiving raw markdown to filesystem", "path", basePath)
	}

	pipeline := crawl.New(crawl.DefaultConfig(), database, crawlClient, archiver)
	batcher := embed.NewBatcher(embed.DefaultBatchConfig(), database, embedClient)
	matcher := match.New(match.DefaultConfig(), database, embedClient)

	config := api.Config{
		Addr:        ":" + *port,
		CORSEnabled: !*disableCORS,
		AdminUser:   getEnv("ADMIN_USER", ""),
		AdminPass:   getEnv("ADMIN_PASSWORD", ""),
	}
	if config.AdminUser == "" || config.AdminPass == "" {
		logger.Warn("ADMIN_USER/ADMIN_PASSWORD not set, admin endpoints disabled")
	}

	server := api.NewServer(config, api.Deps{
		DB:          database,
		Pipeline:    pipeline,
		Extractor:   anchor.NewExtractor(),
		Matcher:     matcher,
		Batcher:     batcher,
		CrawlClient: crawlClient,
		EmbedClient: embedClient,
		Fetcher:     htmlmeta.NewFetcher(30 * time.Second),
	})

	// Keep the indexed-pages gauge current
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			count, err := database.CountPages()
			if err != nil {
				continue
			}
			metrics.PagesIndexedGauge.Set(float64(count))
		}
	}()

	// Start server in a goroutine
	go func() {
		logger.Info("indexing service starting",
			"port", *port,
			"database_host", dbHost,
			"database_name", dbName,
			"crawl_api_url", *crawlURL,
			"embed_model", *embedModel,
		)

		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
