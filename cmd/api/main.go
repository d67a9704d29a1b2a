package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/baskoroadi/go-market-checkout/internal/cart"
	"github.com/baskoroadi/go-market-checkout/internal/catalog"
	"github.com/baskoroadi/go-market-checkout/internal/checkout"
	"github.com/baskoroadi/go-market-checkout/internal/config"
	"github.com/baskoroadi/go-market-checkout/internal/httpx"
	"github.com/baskoroadi/go-market-checkout/internal/identity"
	kafkax "github.com/baskoroadi/go-market-checkout/internal/kafka"
	"github.com/baskoroadi/go-market-checkout/internal/payment"
	"github.com/baskoroadi/go-market-checkout/internal/postgres"
	"github.com/baskoroadi/go-market-checkout/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for order.placed
	prod := kafkax.NewProducer(cfg.KafkaBrokers, checkout.TopicOrderPlaced, 1024)
	prod.Start(ctx)

	// Repos & services
	catalogRepo := &catalog.Repo{DB: db}
	identityRepo := &identity.Repo{DB: db}
	orderRepo := &checkout.OrderRepo{DB: db}
	sessions := identity.NewSessionStore(rdb)
	carts := cart.NewService(catalogRepo)

	gateway := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayToken, cfg.Currency, cfg.GatewayTimeout, cfg.Instruments)

	checkoutSvc := &checkout.Service{
		Carts:       carts,
		Products:    catalogRepo,
		Orders:      orderRepo,
		Gateway:     gateway,
		Producer:    prod,
		Redis:       rdb,
		ServiceName: cfg.ServiceName,
	}

	router := httpx.NewRouter()
	(&httpx.AuthHandler{
		Auth:     &identity.Service{Users: identityRepo},
		Sessions: sessions,
		Carts:    carts,
	}).Register(router)
	(&httpx.CatalogHandler{
		Repo:     catalogRepo,
		Svc:      &catalog.Service{Store: catalogRepo, Sellers: identityRepo},
		Sessions: sessions,
	}).Register(router)
	(&httpx.CartHandler{Carts: carts, Sessions: sessions}).Register(router)
	(&httpx.CheckoutHandler{
		Checkout: checkoutSvc,
		Orders:   orderRepo,
		Sessions: sessions,
		Redis:    rdb,
	}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()
	prod.WaitClosed()
}
