package main

import (
	"context"
	"github.com/ariefcatur/go-kiosk-orders/internal/config"
	kafkax "github.com/ariefcatur/go-kiosk-orders/internal/kafka"
	"github.com/ariefcatur/go-kiosk-orders/internal/notify"
	"github.com/ariefcatur/go-kiosk-orders/internal/orders"
	"github.com/ariefcatur/go-kiosk-orders/internal/redisx"
	"github.com/joho/godotenv"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatalf("KAFKA_BROKERS is required for the notifier")
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Telegram
	var sender notify.Sender = notify.LogSender{}
	if cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegramSender(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		sender = tg
	} else {
		log.Println("TELEGRAM_TOKEN empty, notices go to the log")
	}

	svc := &notify.Service{
		Redis:       rdb,
		Sender:      sender,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, kafkax.ConsumerOptions{
		Group:   cfg.Notifier.Group,
		Topics:  []string{orders.TopicOrderEvents},
		Workers: cfg.Notifier.Workers,
		// a notice waits for Telegram to come back rather than being dropped
		Retry: kafkax.RetryPolicy{Backoff: 500 * time.Millisecond, MaxBackoff: time.Minute},
	})

	go func() {
		log.Printf("notifier consumer started: group=%s topic=%s workers=%d",
			cfg.Notifier.Group, orders.TopicOrderEvents, cfg.Notifier.Workers)
		if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
