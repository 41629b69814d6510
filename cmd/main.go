package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/auth"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/config"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/eventbus"
	httpapi "github.com/Dharshini-457/Smart-Agro-Tribe/internal/http"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/logging"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/pricing"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/repository"
	"github.com/Dharshini-457/Smart-Agro-Tribe/internal/service"

	_ "github.com/Dharshini-457/Smart-Agro-Tribe/docs"
)

// @title Smart Agro Tribe API
// @version 1.0
// @description Farmer/buyer produce marketplace with MASP-floored dynamic pricing
// @BasePath /api
func main() {
	cfg := config.Load()
	log := logging.New()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		// одноразовый секрет: после рестарта все сессии слетают
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			log.Fatal().Err(err).Msg("generate session secret")
		}
		secret = hex.EncodeToString(b)
		log.Warn().Msg("JWT_SECRET not set, using a random per-process secret")
	}

	var publisher eventbus.Publisher = eventbus.NopPublisher{}
	if cfg.AMQPURL != "" {
		p, err := eventbus.NewAMQPPublisher(cfg.AMQPURL, cfg.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("connect event bus")
		}
		defer p.Close()
		publisher = p
	}

	store := repository.NewMemoryStore()
	products := repository.NewMemoryProducts(store)
	ordersRepo := repository.NewMemoryOrders(store)
	ledger := repository.NewMemoryLedger(store)
	tx := repository.NewMemoryTx(store)
	engine := pricing.NewEngine(cfg.PlatformFee)

	usersSvc := service.NewUserService(store)
	catalogSvc := service.NewCatalogService(products, ordersRepo, store, engine)
	ordersSvc := service.NewOrderService(products, ordersRepo, ledger, tx, engine, publisher, log)
	issuer := auth.NewTokenIssuer(secret, cfg.TokenTTL)
	sessionsSvc := service.NewSessionService(usersSvc, issuer, repository.NewMemorySessions(store))

	srv := httpapi.NewServer(usersSvc, catalogSvc, ordersSvc, sessionsSvc, log)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
