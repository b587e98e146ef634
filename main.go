package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"caseiq/pkg/relay"
	"caseiq/pkg/upload"
)

var (
	cfg         Config
	logger      *zap.Logger
	uploads     *upload.Manager
	relayClient *relay.Client
)

func main() {
	cfg = loadConfig()

	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Support a lightweight migrate command: `./caseiq migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		logger.Info("migration and seeding completed")
		return
	}

	initDB()

	uploads, err = upload.New(cfg.UploadDir, cfg.BaseURL+"/uploads/client_images", logger)
	if err != nil {
		logger.Fatal("upload manager init failed", zap.Error(err))
	}
	relayClient = relay.New(cfg.RelayBaseURL, cfg.RelayTimeout, logger)

	r := gin.Default()

	// Uploaded blobs are served straight off the content root; the URLs in
	// records resolve under cfg.BaseURL.
	r.Static("/uploads/client_images", cfg.UploadDir)

	setupRoutes(r)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
