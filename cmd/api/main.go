package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/identity-verify-api/internal/config"
	"github.com/identity-verify-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/identity-verify-api/internal/infrastructure/jwt"
	"github.com/identity-verify-api/internal/infrastructure/registry"
	s3infra "github.com/identity-verify-api/internal/infrastructure/s3"
	"github.com/identity-verify-api/internal/infrastructure/smtp"
	"github.com/identity-verify-api/internal/infrastructure/sns"
	"github.com/identity-verify-api/internal/infrastructure/vault"
	transporthttp "github.com/identity-verify-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// The vault is mandatory: without it identifiers can be neither stored
	// nor verified.
	v, err := vault.New(cfg.EncryptionKey)
	if err != nil {
		log.Fatalf("vault init: %v", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider is optional; staff routes are disabled when keys are missing.
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for upload retention.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender is optional; link delivery falls back to email only.
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	deps := &transporthttp.Deps{
		ListRepo:    dynamo.NewListRepo(dynamoClient, cfg.DynamoTables.Lists),
		EntryRepo:   dynamo.NewEntryRepo(dynamoClient, cfg.DynamoTables.Entries),
		AuditRepo:   dynamo.NewAuditRepo(dynamoClient, cfg.DynamoTables.AuditLogs),
		StaffRepo:   dynamo.NewStaffRepo(dynamoClient, cfg.DynamoTables.StaffUsers),
		Vault:       v,
		S3Store:     s3Store,
		Mailer:      mailer,
		SMSSender:   smsSender,
		CACClient:   registry.NewCACClient(cfg.CACAPIBaseURL, cfg.CACAPISecretKey, cfg.RegistryTimeout, cfg.RegistryRetries),
		NINClient:   registry.NewNINClient(cfg.NINAPIBaseURL, cfg.NINAPIKey, cfg.RegistryTimeout, cfg.RegistryRetries),
		JWTProvider: jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
