package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/juanpablosotoc/zartex/config"
	"github.com/juanpablosotoc/zartex/internal/auth"
	"github.com/juanpablosotoc/zartex/internal/awsx"
	"github.com/juanpablosotoc/zartex/internal/blob"
	"github.com/juanpablosotoc/zartex/internal/image"
	"github.com/juanpablosotoc/zartex/internal/logging"
	"github.com/juanpablosotoc/zartex/internal/server"
	"github.com/juanpablosotoc/zartex/internal/store/postgres"
)

func main() {
	configPath := flag.String("config", "config.json", "path to the config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "zartex: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.NewDefault(cfg.Debug)
	ctx := context.Background()

	awsCfg, err := awsx.NewConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	// The signing secret either comes straight from config or is resolved
	// through Secrets Manager once at startup.
	secretKey := cfg.SecretKey
	if secretKey == "" {
		secrets := awsx.NewSecrets(awsCfg)
		secretKey, err = secrets.GetSecret(ctx, cfg.JWTSecretName)
		if err != nil {
			return err
		}
	}

	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	s3 := awsx.NewS3(awsCfg, cfg.AWSRegion, cfg.S3BaseEndpoint)
	blobs := blob.NewS3Storage(s3, cfg.BucketName,
		time.Duration(cfg.BlobTimeoutSeconds)*time.Second)

	var events image.Events
	if cfg.QueueURL != "" {
		events = awsx.NewSQS(awsCfg, cfg.QueueURL)
	}

	validator := image.NewValidator(cfg.MaxFileSize, cfg.MaxImageDimension, cfg.AllowedExtensions)
	pipeline := image.NewPipeline(validator, db, blobs, cfg.ImageSizes, events, log)

	jwt := auth.NewJWT([]byte(secretKey),
		time.Duration(cfg.TokenTTLMinutes)*time.Minute, db)

	var audit server.Auditor
	if cfg.AuditTable != "" {
		audit = awsx.NewDynamo(awsCfg, cfg.AuditTable)
	}

	srv, err := server.New(cfg, server.Deps{
		DB:       db,
		Auth:     jwt,
		Tokens:   jwt,
		Pipeline: pipeline,
		Audit:    audit,
		Log:      log,
	})
	if err != nil {
		return fmt.Errorf("failed to init server: %w", err)
	}

	log.Info(ctx, "starting zartex server", "port", cfg.Port)
	return srv.Run()
}
