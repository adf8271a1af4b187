package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/alexivanou/tourbook-api/internal/config"
	"github.com/alexivanou/tourbook-api/internal/middleware"
	"go.uber.org/zap"
)

// token mints an admin bearer token signed with JWT_SECRET
func main() {
	var (
		adminID = flag.Int64("id", 1, "Admin user id recorded as validator")
		ttl     = flag.Duration("ttl", 0, "Token lifetime (defaults to JWT_TOKEN_TTL)")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if *ttl <= 0 {
		*ttl = cfg.Auth.TokenTTL
	}

	token, expiresAt, err := middleware.IssueToken(cfg.Auth.JWTSecret, *adminID, *ttl)
	if err != nil {
		logger.Fatal("Failed to issue token", zap.Error(err))
	}
	logger.Info("Issued admin token",
		zap.Int64("admin_id", *adminID),
		zap.String("expires_at", expiresAt.Format(time.RFC3339)),
	)
	fmt.Println(token)
}
