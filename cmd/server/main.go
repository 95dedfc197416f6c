package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/auth"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/cache"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/catalog"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/config"
	db "github.com/efranceschi/delta-sharing-gateway-sub001/internal/database"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/handlers"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/seed"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/signer"
)

func main() {
	cfg := config.MustLoad()
	log.Printf("[main] starting delta sharing gateway on port %s", cfg.Port)

	gdb, err := db.Init()
	if err != nil {
		log.Fatalf("[main] database init failed: %v", err)
	}

	if err := seed.LoadAndApply(gdb, cfg.SeedConfigPath); err != nil {
		log.Fatalf("[main] seed manifest apply failed: %v", err)
	}

	cat := catalog.NewGormCatalog(gdb, cfg.PageTokenSecret, cfg.DefaultPageSize, cfg.MaxPageSize)

	snapshots := cache.New(cfg.SnapshotCacheCapacity, time.Duration(cfg.SnapshotCacheTTLSeconds)*time.Second)
	if !cfg.DisableCacheSweeper {
		cache.StartSweeper(snapshots, time.Minute)
	}

	fileSigner := signer.NewFileSigner(cfg.StorageSigningSecret, "/files")
	var s3Signer signer.Signer
	if cfg.S3Endpoint != "" {
		s3Signer, err = signer.NewS3Signer(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3UseSSL)
		if err != nil {
			log.Fatalf("[main] s3 signer init failed: %v", err)
		}
	}

	tokenStore := auth.NewGormTokenStore(gdb)
	revocationChecked := auth.NewRedisRevocationChecker(cfg.RedisURL, tokenStore)
	authenticator := auth.NewAuthenticator(cfg.ConfiguredBearerToken, revocationChecked, cfg.AuthEnabled)

	deps := &handlers.Deps{
		Config:        cfg,
		Catalog:       cat,
		Snapshots:     snapshots,
		Authenticator: authenticator,
		FileSigner:    fileSigner,
		S3Signer:      s3Signer,
	}
	r := handlers.SetupRouter(deps)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Println("[main] shutdown signal received, exiting")
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	if err := r.Run(addr); err != nil {
		log.Fatalf("[main] failed to start server: %v", err)
	}
}
