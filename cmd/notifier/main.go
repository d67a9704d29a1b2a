package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/baskoroadi/go-market-checkout/internal/checkout"
	"github.com/baskoroadi/go-market-checkout/internal/config"
	kafkax "github.com/baskoroadi/go-market-checkout/internal/kafka"
	"github.com/baskoroadi/go-market-checkout/internal/redisx"
)

// notifier consumes order.placed, dedups by event id, warms the order
// status cache and logs the placement for the seller side.
type notifier struct {
	rdb     *redis.Client
	service string
}

func (n *notifier) handle(ctx context.Context, m kafkago.Message) error {
	var env checkout.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != checkout.EventOrderPlaced {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, n.service, env.EventID)
	exists, _ := redisx.Exists(ctx, n.rdb, dkey)
	if exists {
		return nil
	}
	_ = n.rdb.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[checkout.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	skey := fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)
	val := fmt.Sprintf(`{"status":"PENDING","total_cents":%d}`, p.TotalCents)
	_ = n.rdb.Set(ctx, skey, val, redisx.TTLStatusCache).Err()

	log.Printf("order placed: id=%s buyer=%s total_cents=%d lines=%d",
		p.OrderID, p.BuyerID, p.TotalCents, len(p.Lines))
	return nil
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	group := getenv("NOTIFIER_GROUP", "order-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, checkout.TopicOrderPlaced, workers)

	n := &notifier{rdb: rdb, service: cfg.ServiceName + "-notifier"}

	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d", group, checkout.TopicOrderPlaced, workers)
		if err := cons.Start(ctx, n.handle); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
